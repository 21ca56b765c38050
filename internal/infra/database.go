package infra

import (
	"context"
	"fmt"
	"time"

	"finesse/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes, foreign keys with explicit ON DELETE rules).
func NewDatabase(ctx context.Context, dsn string) (*gorm.DB, error) {
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
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db.WithContext(ctx)); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema. Also used by the integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Atividade{},
		&model.Material{},
		&model.Servico{},
		&model.ServicoMaterial{},
		&model.PrecoPraticado{},
		&model.Configuracoes{},
		&model.Usuario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// schemaPatches are guarded by existence checks so re-running on an
// already-patched DB is a no-op.
var schemaPatches = []struct{ descr, sql string }{
	// At most one vigente price per servico. definirPreco relies on the
	// violation to detect a concurrent writer.
	{"partial unique index ux_precos_praticados_vigente", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_precos_praticados_vigente
    ON precos_praticados (servico_id) WHERE vigente`},
	{"index precos_praticados (servico_id, vigencia_inicio)", `
CREATE INDEX IF NOT EXISTS idx_precos_praticados_historico
    ON precos_praticados (servico_id, vigencia_inicio DESC, id DESC)`},

	// Atividade and Material deletes are refused while servicos reference them.
	{"fk servicos.atividade_id", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_servicos_atividade') THEN
    ALTER TABLE servicos ADD CONSTRAINT fk_servicos_atividade
      FOREIGN KEY (atividade_id) REFERENCES atividades(id) ON DELETE RESTRICT;
  END IF;
END $$`},
	{"fk servico_materiais.material_id", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_servico_materiais_material') THEN
    ALTER TABLE servico_materiais ADD CONSTRAINT fk_servico_materiais_material
      FOREIGN KEY (material_id) REFERENCES materiais(id) ON DELETE RESTRICT;
  END IF;
END $$`},

	// Owned rows go with their servico.
	{"fk servico_materiais.servico_id", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_servico_materiais_servico') THEN
    ALTER TABLE servico_materiais ADD CONSTRAINT fk_servico_materiais_servico
      FOREIGN KEY (servico_id) REFERENCES servicos(id) ON DELETE CASCADE;
  END IF;
END $$`},
	{"fk precos_praticados.servico_id", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_precos_praticados_servico') THEN
    ALTER TABLE precos_praticados ADD CONSTRAINT fk_precos_praticados_servico
      FOREIGN KEY (servico_id) REFERENCES servicos(id) ON DELETE CASCADE;
  END IF;
END $$`},

	{"index configuracoes ativa lookup", `
CREATE INDEX IF NOT EXISTS idx_configuracoes_ativa
    ON configuracoes (atualizado_em DESC, id DESC) WHERE ativo`},
}

func applySchemaPatches(db *gorm.DB) error {
	for _, p := range schemaPatches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
