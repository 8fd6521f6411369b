package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kiranalabs/bazaari-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS brands",
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_variants",
		"role_prices       JSONB",
		"discount_percents JSONB",
		"gst_percents      JSONB",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_variants_sku",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCartMigrationEnforcesSingleActiveCart(t *testing.T) {
	content := readMigration(t, "*_create_cart_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_records",
		"CREATE TABLE IF NOT EXISTS cart_items",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_records_user_active",
		"WHERE status = 'active'",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_cart_key",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderMigrationFreezesTotals(t *testing.T) {
	content := readMigration(t, "*_create_order_tables.sql")

	checks := []string{
		"CREATE SEQUENCE IF NOT EXISTS order_number_seq",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_line_items",
		"total_after_discount NUMERIC(16,4) NOT NULL",
		"unit_price_after_discount NUMERIC(16,4) NOT NULL",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
