package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/spesa/internal/store"
)

func writeBenchCatalog(b *testing.B, rows int) string {
	b.Helper()
	var sb strings.Builder
	sb.WriteString("CODICE;PRODOTTO;FORMATO;MARCA;PREZZO\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "P%05d;Prodotto %d;1kg;Marca;€%d,%02d\n", i, i, i%50, i%100)
	}
	path := filepath.Join(b.TempDir(), "listino.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkLoad(b *testing.B) {
	path := writeBenchCatalog(b, 5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	path := writeBenchCatalog(b, 5000)

	cache, err := store.Open(filepath.Join(b.TempDir(), "catalogs.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadWithCache(path, Options{}, cache); err != nil {
			b.Fatal(err)
		}
	}
}
