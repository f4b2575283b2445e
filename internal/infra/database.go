package infra

import (
	"fmt"

	"portalcaja/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies the SQL bits AutoMigrate cannot express (sequences, partial
// indexes). Every patch is idempotent so restarts are safe.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates the schema. Shared with integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Colegiado{},
		&model.Deuda{},
		&model.ItemCatalogo{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Pago{},
		&model.PagoItem{},
		&model.VerificacionPago{},
		&model.NotaCredito{},
		&model.Constancia{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Receipt and certificate numbering — gapless sequences per deployment
		`CREATE SEQUENCE IF NOT EXISTS numero_recibo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS numero_constancia_seq START 1`,
		// One open session per cashier, enforced at the DB as well
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sesion_abierta_por_usuario') THEN
		    CREATE UNIQUE INDEX idx_sesion_abierta_por_usuario
		        ON sesion_cajas (usuario_id)
		        WHERE estado = 'abierta';
		  END IF;
		END $$`,
		// Partial index feeding the revision cron
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pagos_en_revision') THEN
		    CREATE INDEX idx_pagos_en_revision
		        ON pagos (created_at)
		        WHERE estado = 'pendiente_revision';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
