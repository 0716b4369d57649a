package library

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// document is the YAML layout used by ImportYAML and ExportYAML:
//
//	expressions:
//	  - name: dps
//	    source: dmg * rate
//	    description: damage per second
type document struct {
	Expressions []Entry `yaml:"expressions"`
}

// ImportYAML saves every entry in r to store. Entries that fail are
// skipped and reported together; the others are still saved. IDs and
// timestamps in the document are ignored. Returns the number saved.
func ImportYAML(store Store, r io.Reader) (int, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}

	saved := 0
	var errs error
	for i, e := range doc.Expressions {
		entry := Entry{Name: e.Name, Source: e.Source, Description: e.Description}
		if _, err := store.Save(entry); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		saved++
	}
	return saved, errs
}

// ExportYAML writes every entry in store to w.
func ExportYAML(store Store, w io.Writer) error {
	entries, err := store.List()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Expressions: entries}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
