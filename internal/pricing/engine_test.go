package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestUnitCost(t *testing.T) {
	assertDec(t, "5.000000", UnitCost(d("10.00"), d("2.00")))
	assertDec(t, "0.333333", UnitCost(d("1"), d("3")))
	assertDec(t, "0.666667", UnitCost(d("2"), d("3")))
	assertDec(t, "0", UnitCost(d("10"), d("0")))
	assertDec(t, "0", UnitCost(d("10"), d("-1")))
}

func TestMaterialUseCost(t *testing.T) {
	assertDec(t, "15.000000", MaterialUseCost(d("3.0000"), UnitCost(d("10.00"), d("2.00"))))
}

func TestLaborCost(t *testing.T) {
	assertDec(t, "30.0000", LaborCost(d("60.00"), 30))
	// 7/60 = 0.11666.. -> 0.1167
	assertDec(t, "11.67", LaborCost(d("100"), 7))
	assertDec(t, "0", LaborCost(d("100"), 0))
}

func TestMarkup(t *testing.T) {
	one := decimal.NewFromInt(1)
	assertDec(t, "1.6667", Markup(one, d("10"), d("10"), d("20")))
	assertDec(t, "1", Markup(one))
}

func TestMarkup_NonPositiveDivisorKeepsPrevious(t *testing.T) {
	prev := d("1.2500")
	assertDec(t, "1.2500", Markup(prev, d("50"), d("30"), d("20")))
	assertDec(t, "1.2500", Markup(prev, d("70"), d("40")))
}

func TestSuggestedPrice(t *testing.T) {
	assertDec(t, "75.00", SuggestedPrice(d("45"), d("1.6667")))
	assertDec(t, "0.01", SuggestedPrice(d("0.005"), d("1")))
}

func TestProfit(t *testing.T) {
	lucro, pct, ok := Profit(d("100"), d("45"))
	require.True(t, ok)
	assertDec(t, "55", lucro)
	assertDec(t, "55.00", pct)

	lucro, _, ok = Profit(d("0"), d("45"))
	assert.False(t, ok)
	assertDec(t, "-45", lucro)
}

func TestRecalcular_ExampleScenario(t *testing.T) {
	in := Inputs{
		ValorHora:      d("60.00"),
		DuracaoMinutos: 30,
		Materiais: []MaterialUse{
			{Quantidade: d("3.0000"), CustoUnitario: UnitCost(d("10.00"), d("2.00"))},
		},
		AliquotaPct:    d("10"),
		CustoFixoPct:   d("10"),
		MargemLucroPct: d("20"),
	}
	b := Recalcular(in, decimal.NewFromInt(1))

	assertDec(t, "15", b.CustoMateriais)
	assertDec(t, "30", b.CustoMaoDeObra)
	assertDec(t, "45", b.CustoTotal)
	assertDec(t, "1.6667", b.Markup)
	assertDec(t, "75.00", b.PrecoSugerido)
	assert.Nil(t, b.PrecoAtual)
	assert.Nil(t, b.LucroLiquido)
	assert.Nil(t, b.LucroLiquidoPct)
}

func TestRecalcular_WithActualPrice(t *testing.T) {
	atual := d("90.00")
	b := Recalcular(Inputs{ValorHora: d("60"), DuracaoMinutos: 60, PrecoAtual: &atual}, decimal.NewFromInt(1))
	require.NotNil(t, b.LucroLiquido)
	require.NotNil(t, b.LucroLiquidoPct)
	assertDec(t, "30", *b.LucroLiquido)
	assertDec(t, "33.33", *b.LucroLiquidoPct)
}

func TestRecalcular_ZeroActualPriceSkipsPct(t *testing.T) {
	zero := decimal.Zero
	b := Recalcular(Inputs{ValorHora: d("60"), DuracaoMinutos: 60, PrecoAtual: &zero}, decimal.NewFromInt(1))
	require.NotNil(t, b.LucroLiquido)
	assert.Nil(t, b.LucroLiquidoPct)
}

func TestConfigDerivations(t *testing.T) {
	horas := HorasMensais(d("40"), d("4.33"))
	assertDec(t, "173.2", horas)
	vh := ValorHora(d("5000"), horas)
	assertDec(t, "28.86836028", vh)
	assertDec(t, "0.48113934", ValorMinuto(vh))
	assertDec(t, "0", ValorHora(d("5000"), decimal.Zero))
}
