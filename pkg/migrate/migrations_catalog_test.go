package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/berrythread/storefront-api/pkg/migrate"
)

func TestCatalogCacheMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_catalog_cache.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no catalog cache migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cached_products",
		"CREATE TABLE IF NOT EXISTS cached_variants",
		"FOREIGN KEY (product_id) REFERENCES cached_products(id) ON DELETE CASCADE",
		"CHECK (inventory_level IN ('none', 'product', 'variant'))",
		"DROP TABLE IF EXISTS cached_variants",
	}
	for _, want := range checks {
		if !strings.Contains(content, want) {
			t.Fatalf("migration missing %q", want)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "0001_short_version.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected filename validation error")
	}
}
