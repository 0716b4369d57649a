// Package library stores named expressions for host tooling.
//
// A library maps a unique name to an expression source plus a description.
// Entries are validated before they are stored, typically by compiling the
// source with an engine:
//
//	store, err := library.NewSQLiteStore("expressions.db",
//	    library.WithCheck(engine.Check))
//	saved, err := store.Save(library.Entry{Name: "dps", Source: "dmg * rate"})
package library

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Store persists named expressions.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save inserts an entry or replaces the one with the same name.
	// The ID and creation time of a replaced entry are kept.
	// Returns the entry as stored.
	Save(e Entry) (Entry, error)

	// Get retrieves an entry by name.
	// Returns ErrNotFound if no entry has that name.
	Get(name string) (Entry, error)

	// List returns every entry, ordered by name.
	// Returns an empty slice (not error) if the library is empty.
	List() ([]Entry, error)

	// Delete removes an entry by name.
	// Returns ErrNotFound if no entry has that name.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one named expression.
type Entry struct {
	ID          string    `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string    `yaml:"name" json:"name"`
	Source      string    `yaml:"source" json:"source"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Sentinel errors for library operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("expression not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("expression store closed")

	// ErrInvalidEntry indicates an entry failed validation.
	ErrInvalidEntry = errors.New("invalid expression entry")
)

// CheckFunc validates an expression source, typically by compiling it.
type CheckFunc func(source string) error

// Option configures a store.
type Option func(*storeOptions)

type storeOptions struct {
	check CheckFunc
	now   func() time.Time
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithCheck validates every saved source with fn.
func WithCheck(fn CheckFunc) Option {
	return func(o *storeOptions) {
		o.check = fn
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Validate reports every problem with e. check may be nil.
func Validate(e Entry, check CheckFunc) error {
	var err error
	if !namePattern.MatchString(e.Name) {
		err = multierr.Append(err, fmt.Errorf("name %q must start with a letter or '_' and contain only letters, digits, '_', '.' or '-'", e.Name))
	}
	if strings.TrimSpace(e.Source) == "" {
		err = multierr.Append(err, errors.New("source is empty"))
	} else if check != nil {
		if cerr := check(e.Source); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("source: %w", cerr))
		}
	}
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
	}
	return nil
}

// prepare validates e and stamps it for storage. prev is the entry being
// replaced, if any.
func (o storeOptions) prepare(e Entry, prev *Entry) (Entry, error) {
	if err := Validate(e, o.check); err != nil {
		return Entry{}, err
	}
	now := o.now()
	e.UpdatedAt = now
	if prev != nil {
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
	} else {
		e.ID = uuid.NewString()
		e.CreatedAt = now
	}
	return e, nil
}
