package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ServicoMaterialRequest struct {
	MaterialID      *int64          `json:"materialId"`
	QuantidadeUsada decimal.Decimal `json:"quantidadeUsada"`
}

// ServicoRequest creates or updates a service. PrecoPraticado, when present,
// is applied through the price history in the same transaction.
type ServicoRequest struct {
	Nome                 string                   `json:"nome"  validate:"max=200"`
	Grupo                string                   `json:"grupo" validate:"max=120"`
	DuracaoMinutos       int                      `json:"duracaoMinutos"`
	AtividadeID          *int64                   `json:"atividadeId"`
	MargemLucroCustomPct *decimal.Decimal         `json:"margemLucroCustomPct"`
	Ativo                *bool                    `json:"ativo"`
	Materiais            []ServicoMaterialRequest `json:"materiais"`
	PrecoPraticado       *decimal.Decimal         `json:"precoPraticado"`
}

type ServicoFilter struct {
	ListQuery
	Nome  string `form:"nome"`
	Grupo string `form:"grupo"`
}

type PrecoSetRequest struct {
	Preco *decimal.Decimal `json:"preco"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ServicoResponse struct {
	ID                   int64            `json:"id"`
	Nome                 string           `json:"nome"`
	Grupo                string           `json:"grupo"`
	DuracaoMinutos       int              `json:"duracaoMinutos"`
	AtividadeID          int64            `json:"atividadeId"`
	MargemLucroCustomPct *decimal.Decimal `json:"margemLucroCustomPct"`
	Ativo                bool             `json:"ativo"`
}

type ServicoMaterialResponse struct {
	ID              int64           `json:"id"`
	MaterialID      int64           `json:"materialId"`
	Produto         string          `json:"produto"`
	CustoUnitario   decimal.Decimal `json:"custoUnitario"`
	QuantidadeUsada decimal.Decimal `json:"quantidadeUsada"`
	CustoTotal      decimal.Decimal `json:"custoTotal"`
}

type ServicoDetailResponse struct {
	ID                        int64                     `json:"id"`
	Nome                      string                    `json:"nome"`
	Grupo                     string                    `json:"grupo"`
	DuracaoMinutos            int                       `json:"duracaoMinutos"`
	AtividadeID               int64                     `json:"atividadeId"`
	AtividadeNome             string                    `json:"atividadeNome"`
	AtividadeAliquotaTotalPct decimal.Decimal           `json:"atividadeAliquotaTotalPct"`
	AtividadeIssPct           decimal.Decimal           `json:"atividadeIssPct"`
	MargemLucroCustomPct      *decimal.Decimal          `json:"margemLucroCustomPct"`
	Ativo                     bool                      `json:"ativo"`
	PrecoVigente              *decimal.Decimal          `json:"precoVigente"`
	Materiais                 []ServicoMaterialResponse `json:"materiais"`
}

type PrecoPraticadoResponse struct {
	ID             int64           `json:"id"`
	ServicoID      int64           `json:"servicoId"`
	Preco          decimal.Decimal `json:"preco"`
	VigenciaInicio string          `json:"vigenciaInicio"`
	VigenciaFim    *string         `json:"vigenciaFim"`
	Vigente        bool            `json:"vigente"`
}

type PrecoSetResponse struct {
	Changed bool                   `json:"changed"`
	Vigente PrecoPraticadoResponse `json:"vigente"`
}

// PrecoAtualResponse is one row of GET /api/servicos/precos.
type PrecoAtualResponse struct {
	ServicoID int64            `json:"servicoId"`
	Nome      string           `json:"nome"`
	Preco     *decimal.Decimal `json:"preco"`
}

// PrecificacaoResponse is the computed pricing of one service.
type PrecificacaoResponse struct {
	ServicoID       int64            `json:"servicoId"`
	ValorHora       decimal.Decimal  `json:"valorHora"`
	CustoMateriais  decimal.Decimal  `json:"custoMateriais"`
	CustoMaoDeObra  decimal.Decimal  `json:"custoMaoDeObra"`
	CustoTotal      decimal.Decimal  `json:"custoTotal"`
	AliquotaPct     decimal.Decimal  `json:"aliquotaPct"`
	CustoFixoPct    decimal.Decimal  `json:"custoFixoPct"`
	MargemLucroPct  decimal.Decimal  `json:"margemLucroPct"`
	Markup          decimal.Decimal  `json:"markup"`
	PrecoSugerido   decimal.Decimal  `json:"precoSugerido"`
	PrecoAtual      *decimal.Decimal `json:"precoAtual"`
	LucroLiquido    *decimal.Decimal `json:"lucroLiquido"`
	LucroLiquidoPct *decimal.Decimal `json:"lucroLiquidoPct"`
}

// PrecoAlteradoEvent is the payload of the preco.alterado job.
type PrecoAlteradoEvent struct {
	ServicoID      int64            `json:"servicoId"`
	Nome           string           `json:"nome"`
	PrecoAnterior  *decimal.Decimal `json:"precoAnterior"`
	PrecoNovo      decimal.Decimal  `json:"precoNovo"`
	VigenciaInicio string           `json:"vigenciaInicio"`
}
