package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Configuracoes holds the pricing settings. The most recent active row is
// the one used to price services.
type Configuracoes struct {
	ID                      int64           `gorm:"primaryKey"`
	PretensaoSalarialMensal decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	HorasSemanais           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SemanasMediaMes         decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	CustoFixoPct            decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	MargemLucroPadraoPct    decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	Ativo                   bool            `gorm:"not null"`
	CreatedAt               time.Time
	AtualizadoEm            time.Time `gorm:"autoUpdateTime"`
}

func (Configuracoes) TableName() string { return "configuracoes" }

// SemanasMediaMesPadrao is used when a row is created without the field.
var SemanasMediaMesPadrao = decimal.RequireFromString("4.33")
