package benchmarks

import (
	"bytes"
	"os"
	"testing"

	"github.com/randalmurphal/ascent/pkg/ascent/library"
)

// BenchmarkMemoryStore_Save measures in-memory library upserts.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := library.NewMemoryStore()
	entry := library.Entry{Name: "dps", Source: "dmg * rate * (1 + crit * 0.5)"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Save(entry)
	}
}

// BenchmarkMemoryStore_Get measures in-memory library lookups.
func BenchmarkMemoryStore_Get(b *testing.B) {
	store := library.NewMemoryStore()
	_, _ = store.Save(library.Entry{Name: "dps", Source: "dmg * rate"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Get("dps")
	}
}

// BenchmarkSQLiteStore_Save measures SQLite library upserts.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Save(library.Entry{Name: entryName(i % 100), Source: "dmg * rate"})
	}
}

// BenchmarkSQLiteStore_Get measures SQLite library lookups.
func BenchmarkSQLiteStore_Get(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()
	_, _ = store.Save(library.Entry{Name: "dps", Source: "dmg * rate"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Get("dps")
	}
}

// BenchmarkExportYAML measures serializing a 100 entry library.
func BenchmarkExportYAML(b *testing.B) {
	store := library.NewMemoryStore()
	for i := 0; i < 100; i++ {
		_, _ = store.Save(library.Entry{Name: entryName(i), Source: "clamp(x * 2, 0, 10)"})
	}
	var buf bytes.Buffer

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = library.ExportYAML(store, &buf)
	}
}

// Helper functions

func createSQLiteStore(b *testing.B) (*library.SQLiteStore, func()) {
	b.Helper()
	tmpFile, err := os.CreateTemp("", "bench-*.db")
	if err != nil {
		b.Fatal(err)
	}
	tmpFile.Close()

	store, err := library.NewSQLiteStore(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		b.Fatal(err)
	}

	return store, func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
}

func entryName(i int) string {
	return "expr_" + string(rune('a'+i%26)) + string(rune('a'+i/26%26))
}
