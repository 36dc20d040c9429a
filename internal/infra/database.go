package infra

import (
	"fmt"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// schema. TranslateError is on so duplicate keys surface as
// gorm.ErrDuplicatedKey instead of a raw driver error.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// spans are no-ops until a tracer provider is registered
	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		log.Warn().Err(err).Msg("failed to install otelgorm plugin")
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables, then applies the idempotent SQL
// patches that GORM tags cannot express. Integration tests call it directly.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Location{},
		&model.Product{},
		&model.StockItem{},
		&model.StockMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Payment{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate cannot
// handle on its own. Each statement uses IF NOT EXISTS semantics so re-running
// on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// expiring-stock scan only looks at dated, non-empty entries
		`CREATE INDEX IF NOT EXISTS idx_stock_items_expiring
		     ON stock_items (expiration_date)
		     WHERE expiration_date IS NOT NULL AND quantity > 0`,
		// line and payment order within a sale is unique
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sale_items_position
		     ON sale_items (sale_id, position)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_position
		     ON payments (sale_id, position)`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sale_items_quantity_positive') THEN
		    ALTER TABLE sale_items ADD CONSTRAINT chk_sale_items_quantity_positive CHECK (quantity > 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
