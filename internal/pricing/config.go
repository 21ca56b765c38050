package pricing

import "github.com/shopspring/decimal"

// HorasMensais is weekly hours x weeks per month.
func HorasMensais(horasSemanais, semanasMediaMes decimal.Decimal) decimal.Decimal {
	return horasSemanais.Mul(semanasMediaMes)
}

// ValorHora is monthly salary / monthly hours at 8 decimals, zero when hours <= 0.
func ValorHora(pretensaoSalarialMensal, horasMensais decimal.Decimal) decimal.Decimal {
	if !horasMensais.IsPositive() {
		return decimal.Zero
	}
	return pretensaoSalarialMensal.DivRound(horasMensais, 8)
}

// ValorMinuto is valorHora / 60 at 8 decimals.
func ValorMinuto(valorHora decimal.Decimal) decimal.Decimal {
	return valorHora.DivRound(sixty, 8)
}
