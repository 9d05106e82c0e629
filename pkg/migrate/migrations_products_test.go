package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProductsMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no products migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE RESTRICT",
		"CHECK (price >= 0)",
		"CHECK (stock >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_id",
		"DROP TABLE IF EXISTS products",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
