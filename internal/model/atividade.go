package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Atividade is a tax/activity class (CNAE) attached to services.
type Atividade struct {
	ID               int64           `gorm:"primaryKey"`
	Nome             string          `gorm:"size:120;not null;index"`
	Cnae             string          `gorm:"size:20"`
	AliquotaTotalPct decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	IssPct           decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	Observacao       string          `gorm:"size:500"`
	Ativo            bool            `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Atividade) TableName() string { return "atividades" }
