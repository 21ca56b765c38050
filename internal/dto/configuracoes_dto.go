package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConfiguracoesRequest struct {
	PretensaoSalarialMensal *decimal.Decimal `json:"pretensaoSalarialMensal"`
	HorasSemanais           *decimal.Decimal `json:"horasSemanais"`
	SemanasMediaMes         *decimal.Decimal `json:"semanasMediaMes"`
	CustoFixoPct            *decimal.Decimal `json:"custoFixoPct"`
	MargemLucroPadraoPct    *decimal.Decimal `json:"margemLucroPadraoPct"`
	Ativo                   *bool            `json:"ativo"`
}

type ConfiguracoesResponse struct {
	ID                      int64           `json:"id"`
	PretensaoSalarialMensal decimal.Decimal `json:"pretensaoSalarialMensal"`
	HorasSemanais           decimal.Decimal `json:"horasSemanais"`
	SemanasMediaMes         decimal.Decimal `json:"semanasMediaMes"`
	CustoFixoPct            decimal.Decimal `json:"custoFixoPct"`
	MargemLucroPadraoPct    decimal.Decimal `json:"margemLucroPadraoPct"`
	HorasMensais            decimal.Decimal `json:"horasMensais"`
	ValorHora               decimal.Decimal `json:"valorHora"`
	ValorMinuto             decimal.Decimal `json:"valorMinuto"`
	Ativo                   bool            `json:"ativo"`
	AtualizadoEm            time.Time       `json:"atualizadoEm"`
}
