package model

import (
	"fmt"
	"strings"
	"time"

	"finesse/internal/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnidadeMedida is stored by its abbreviation.
type UnidadeMedida string

const (
	Unidade    UnidadeMedida = "UN"
	Metro      UnidadeMedida = "M"
	Mililitro  UnidadeMedida = "ML"
	Grama      UnidadeMedida = "G"
	Litro      UnidadeMedida = "L"
	Quilograma UnidadeMedida = "KG"
)

var unidadeNomes = map[UnidadeMedida]string{
	Unidade:    "UNIDADE",
	Metro:      "METRO",
	Mililitro:  "MILILITRO",
	Grama:      "GRAMA",
	Litro:      "LITRO",
	Quilograma: "QUILOGRAMA",
}

// ParseUnidadeMedida accepts the abbreviation or the Portuguese name, case-insensitive.
func ParseUnidadeMedida(s string) (UnidadeMedida, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for u, nome := range unidadeNomes {
		if v == string(u) || v == nome {
			return u, nil
		}
	}
	return "", fmt.Errorf("unidade de medida inválida: %s", s)
}

// Nome returns the full Portuguese name.
func (u UnidadeMedida) Nome() string { return unidadeNomes[u] }

// Material is a consumable supply priced per package.
// CustoUnitario is derived on every save and never taken from clients.
type Material struct {
	ID              int64           `gorm:"primaryKey"`
	Produto         string          `gorm:"size:200;not null;index"`
	UnidadeMedida   UnidadeMedida   `gorm:"type:varchar(5);not null"`
	VolumeEmbalagem decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecoEmbalagem  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CustoUnitario   decimal.Decimal `gorm:"type:decimal(10,6);not null"`
	Observacoes     string          `gorm:"size:500"`
	Ativo           bool            `gorm:"not null"`
	CreatedAt       time.Time
	DataAtualizacao time.Time `gorm:"autoUpdateTime"`
}

func (Material) TableName() string { return "materiais" }

// BeforeSave keeps custo_unitario = preco / volume.
func (m *Material) BeforeSave(_ *gorm.DB) error {
	m.CustoUnitario = pricing.UnitCost(m.PrecoEmbalagem, m.VolumeEmbalagem)
	return nil
}
