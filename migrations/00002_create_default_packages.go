package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateDefaultPackages, downCreateDefaultPackages)
}

func upCreateDefaultPackages(tx *sql.Tx) error {
	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM credit_packages").Scan(&count); err != nil {
		return fmt.Errorf("failed to check existing packages: %w", err)
	}

	// Only seed when no packages have been configured yet
	if count > 0 {
		return nil
	}

	packages := []struct {
		name    string
		credits int
		price   float64
	}{
		{"Starter", 100, 100.00},
		{"Regular", 550, 500.00},
		{"Family", 1200, 1000.00},
	}

	for _, p := range packages {
		query := `
			INSERT INTO credit_packages (name, credits, price, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, true, NOW(), NOW())
		`
		if _, err := tx.Exec(query, p.name, p.credits, p.price); err != nil {
			return fmt.Errorf("failed to seed package %s: %w", p.name, err)
		}
	}

	return nil
}

func downCreateDefaultPackages(tx *sql.Tx) error {
	_, err := tx.Exec("DELETE FROM credit_packages WHERE name IN ('Starter', 'Regular', 'Family')")
	if err != nil {
		return fmt.Errorf("failed to remove seeded packages: %w", err)
	}
	return nil
}
