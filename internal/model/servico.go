package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Servico is a billable service. Associations are held by id: AtividadeID
// points at its Atividade, Materiais are the owned join rows and price
// history lives in precos_praticados keyed by servico_id.
type Servico struct {
	ID                   int64            `gorm:"primaryKey"`
	Nome                 string           `gorm:"size:200;not null;index"`
	Grupo                string           `gorm:"size:120;not null"`
	DuracaoMinutos       int              `gorm:"not null"`
	AtividadeID          int64            `gorm:"not null;index"`
	MargemLucroCustomPct *decimal.Decimal `gorm:"type:decimal(7,4)"`
	Ativo                bool             `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Materiais []ServicoMaterial `gorm:"-"`
}

func (Servico) TableName() string { return "servicos" }

// ServicoMaterial is the quantity of one material used by one service.
// (servico_id, material_id) is unique.
type ServicoMaterial struct {
	ID              int64           `gorm:"primaryKey"`
	ServicoID       int64           `gorm:"not null;uniqueIndex:ux_servico_materiais_par"`
	MaterialID      int64           `gorm:"not null;uniqueIndex:ux_servico_materiais_par;index"`
	QuantidadeUsada decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}

func (ServicoMaterial) TableName() string { return "servico_materiais" }
