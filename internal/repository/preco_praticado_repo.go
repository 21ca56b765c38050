package repository

import (
	"context"

	"finesse/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VigenteIndex is the partial unique index that allows one vigente price per servico.
const VigenteIndex = "ux_precos_praticados_vigente"

// CurrentPrice is the price in effect for one servico. Preco is invalid when
// the servico has no history at all.
type CurrentPrice struct {
	ServicoID int64
	Nome      string
	Preco     decimal.NullDecimal
}

type PrecoPraticadoRepository interface {
	Create(ctx context.Context, p *model.PrecoPraticado) error
	Update(ctx context.Context, p *model.PrecoPraticado) error
	// FindVigente returns the newest row flagged vigente, or gorm.ErrRecordNotFound.
	FindVigente(ctx context.Context, servicoID int64) (*model.PrecoPraticado, error)
	// FindLatest returns the newest row regardless of the vigente flag.
	FindLatest(ctx context.Context, servicoID int64) (*model.PrecoPraticado, error)
	ListByServico(ctx context.Context, servicoID int64) ([]model.PrecoPraticado, error)
	CurrentPrices(ctx context.Context) ([]CurrentPrice, error)
}

type precoPraticadoRepo struct{ db *gorm.DB }

func NewPrecoPraticadoRepository(db *gorm.DB) PrecoPraticadoRepository {
	return &precoPraticadoRepo{db: db}
}

func (r *precoPraticadoRepo) Create(ctx context.Context, p *model.PrecoPraticado) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *precoPraticadoRepo) Update(ctx context.Context, p *model.PrecoPraticado) error {
	return GetDB(ctx, r.db).Save(p).Error
}

func (r *precoPraticadoRepo) FindVigente(ctx context.Context, servicoID int64) (*model.PrecoPraticado, error) {
	var p model.PrecoPraticado
	err := GetDB(ctx, r.db).
		Where("servico_id = ? AND vigente = true", servicoID).
		Order("vigencia_inicio DESC, id DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *precoPraticadoRepo) FindLatest(ctx context.Context, servicoID int64) (*model.PrecoPraticado, error) {
	var p model.PrecoPraticado
	err := GetDB(ctx, r.db).
		Where("servico_id = ?", servicoID).
		Order("vigencia_inicio DESC, id DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *precoPraticadoRepo) ListByServico(ctx context.Context, servicoID int64) ([]model.PrecoPraticado, error) {
	var rows []model.PrecoPraticado
	err := GetDB(ctx, r.db).
		Where("servico_id = ?", servicoID).
		Order("vigencia_inicio DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

const currentPricesSQL = `
SELECT s.id AS servico_id, s.nome, p.preco
FROM servicos s
LEFT JOIN LATERAL (
	SELECT pp.preco
	FROM precos_praticados pp
	WHERE pp.servico_id = s.id
	ORDER BY pp.vigente DESC, pp.vigencia_inicio DESC, pp.id DESC
	LIMIT 1
) p ON true
ORDER BY s.id`

// CurrentPrices lists every servico with its vigente price, falling back to
// the most recent row when none is flagged.
func (r *precoPraticadoRepo) CurrentPrices(ctx context.Context) ([]CurrentPrice, error) {
	var rows []CurrentPrice
	err := GetDB(ctx, r.db).Raw(currentPricesSQL).Scan(&rows).Error
	return rows, err
}
