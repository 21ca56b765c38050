package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequest has no custoUnitario: it is always derived server-side.
type MaterialRequest struct {
	Produto         string           `json:"produto"         validate:"max=200"`
	UnidadeMedida   string           `json:"unidadeMedida"`
	VolumeEmbalagem *decimal.Decimal `json:"volumeEmbalagem"`
	PrecoEmbalagem  *decimal.Decimal `json:"precoEmbalagem"`
	Observacoes     string           `json:"observacoes"     validate:"max=500"`
	Ativo           *bool            `json:"ativo"`
}

type MaterialFilter struct {
	ListQuery
	Produto string `form:"produto"`
}

type MaterialResponse struct {
	ID                int64           `json:"id"`
	Produto           string          `json:"produto"`
	UnidadeMedida     string          `json:"unidadeMedida"`
	UnidadeMedidaNome string          `json:"unidadeMedidaNome"`
	VolumeEmbalagem   decimal.Decimal `json:"volumeEmbalagem"`
	PrecoEmbalagem    decimal.Decimal `json:"precoEmbalagem"`
	CustoUnitario     decimal.Decimal `json:"custoUnitario"`
	Observacoes       string          `json:"observacoes"`
	Ativo             bool            `json:"ativo"`
	DataAtualizacao   time.Time       `json:"dataAtualizacao"`
}
