// Package pricing derives service costs and prices from raw inputs.
//
// All arithmetic uses shopspring/decimal. Round is half away from zero, which
// matches half-up for the non-negative values handled here.
package pricing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	sixty   = decimal.NewFromInt(60)
)

// UnitCost is packagePrice / packageVolume at 6 decimals. Zero when volume <= 0.
func UnitCost(precoEmbalagem, volumeEmbalagem decimal.Decimal) decimal.Decimal {
	if !volumeEmbalagem.IsPositive() {
		return decimal.Zero
	}
	return precoEmbalagem.DivRound(volumeEmbalagem, 6)
}

// MaterialUseCost is quantity x unit cost at 6 decimals.
func MaterialUseCost(quantidade, custoUnitario decimal.Decimal) decimal.Decimal {
	return quantidade.Mul(custoUnitario).Round(6)
}

// LaborCost is valorHora x hours, where hours = minutes / 60 rounded to 4 decimals.
func LaborCost(valorHora decimal.Decimal, minutos int) decimal.Decimal {
	if minutos <= 0 {
		return decimal.Zero
	}
	horas := decimal.NewFromInt(int64(minutos)).DivRound(sixty, 4)
	return valorHora.Mul(horas)
}

// Markup returns 1 / (1 - sum(pct/100)) at 4 decimals. Each pct/100 is rounded
// to 4 decimals before summing. When the divisor is not strictly positive the
// previous markup is returned unchanged.
func Markup(previous decimal.Decimal, pcts ...decimal.Decimal) decimal.Decimal {
	soma := decimal.Zero
	for _, p := range pcts {
		soma = soma.Add(p.DivRound(hundred, 4))
	}
	divisor := decimal.NewFromInt(1).Sub(soma)
	if !divisor.IsPositive() {
		return previous
	}
	return decimal.NewFromInt(1).DivRound(divisor, 4)
}

// SuggestedPrice is total cost x markup at 2 decimals.
func SuggestedPrice(custoTotal, markup decimal.Decimal) decimal.Decimal {
	return custoTotal.Mul(markup).Round(2)
}

// Profit returns actual - total and, when actual > 0, the percentage
// round(round(lucro/actual, 4) x 100, 2). pctOK is false when the percentage is skipped.
func Profit(precoAtual, custoTotal decimal.Decimal) (lucro decimal.Decimal, pct decimal.Decimal, pctOK bool) {
	lucro = precoAtual.Sub(custoTotal)
	if !precoAtual.IsPositive() {
		return lucro, decimal.Zero, false
	}
	pct = lucro.DivRound(precoAtual, 4).Mul(hundred).Round(2)
	return lucro, pct, true
}

// MaterialUse is one material consumed by a service.
type MaterialUse struct {
	Quantidade    decimal.Decimal
	CustoUnitario decimal.Decimal
}

// Inputs holds everything needed to price a service.
type Inputs struct {
	ValorHora      decimal.Decimal
	DuracaoMinutos int
	Materiais      []MaterialUse
	AliquotaPct    decimal.Decimal
	CustoFixoPct   decimal.Decimal
	MargemLucroPct decimal.Decimal
	PrecoAtual     *decimal.Decimal
}

// Breakdown is the result of Recalcular.
type Breakdown struct {
	CustoMateriais  decimal.Decimal
	CustoMaoDeObra  decimal.Decimal
	CustoTotal      decimal.Decimal
	Markup          decimal.Decimal
	PrecoSugerido   decimal.Decimal
	PrecoAtual      *decimal.Decimal
	LucroLiquido    *decimal.Decimal
	LucroLiquidoPct *decimal.Decimal
}

// Recalcular runs materials -> total -> markup -> suggested -> profit.
// previousMarkup is kept when the markup divisor is not positive; pass
// decimal.NewFromInt(1) when there is none.
func Recalcular(in Inputs, previousMarkup decimal.Decimal) Breakdown {
	var b Breakdown

	b.CustoMateriais = decimal.Zero
	for _, m := range in.Materiais {
		b.CustoMateriais = b.CustoMateriais.Add(MaterialUseCost(m.Quantidade, m.CustoUnitario))
	}

	b.CustoMaoDeObra = LaborCost(in.ValorHora, in.DuracaoMinutos)
	b.CustoTotal = b.CustoMaoDeObra.Add(b.CustoMateriais)
	b.Markup = Markup(previousMarkup, in.AliquotaPct, in.CustoFixoPct, in.MargemLucroPct)
	b.PrecoSugerido = SuggestedPrice(b.CustoTotal, b.Markup)

	if in.PrecoAtual != nil {
		atual := *in.PrecoAtual
		b.PrecoAtual = &atual
		lucro, pct, ok := Profit(atual, b.CustoTotal)
		b.LucroLiquido = &lucro
		if ok {
			b.LucroLiquidoPct = &pct
		}
	}
	return b
}
