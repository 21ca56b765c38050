package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AtividadeRequest struct {
	Nome             string           `json:"nome"             validate:"max=120"`
	Cnae             string           `json:"cnae"             validate:"max=20"`
	AliquotaTotalPct *decimal.Decimal `json:"aliquotaTotalPct"`
	IssPct           *decimal.Decimal `json:"issPct"`
	Observacao       string           `json:"observacao"       validate:"max=500"`
	Ativo            *bool            `json:"ativo"`
}

type AtividadeFilter struct {
	ListQuery
	Titulo string `form:"titulo"`
}

type AtividadeResponse struct {
	ID               int64           `json:"id"`
	Nome             string          `json:"nome"`
	Cnae             string          `json:"cnae"`
	AliquotaTotalPct decimal.Decimal `json:"aliquotaTotalPct"`
	IssPct           decimal.Decimal `json:"issPct"`
	Observacao       string          `json:"observacao"`
	Ativo            bool            `json:"ativo"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
