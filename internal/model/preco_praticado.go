package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PrecoPraticado is one entry of a service's price history.
// Rows are never edited once superseded: closing sets Vigente=false and
// VigenciaFim, and a new row is appended. A partial unique index keeps at
// most one vigente row per servico.
type PrecoPraticado struct {
	ID             int64           `gorm:"primaryKey"`
	ServicoID      int64           `gorm:"not null;index"`
	Preco          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VigenciaInicio datatypes.Date  `gorm:"not null"`
	VigenciaFim    *datatypes.Date
	Vigente        bool `gorm:"not null"`
	CreatedAt      time.Time
}

func (PrecoPraticado) TableName() string { return "precos_praticados" }

// Date truncates t to a calendar date in its own location.
func Date(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

// SameDay compares two dates by calendar day.
func SameDay(a, b datatypes.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	return ay == by && am == bm && ad == bd
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(d datatypes.Date) string { return time.Time(d).Format(time.DateOnly) }
