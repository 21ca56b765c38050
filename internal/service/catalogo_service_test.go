package service_test

import (
	"context"
	"testing"

	"finesse/internal/apierror"
	"finesse/internal/dto"
	"finesse/internal/model"
	"finesse/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtividade_CriarNormalizesPercentages(t *testing.T) {
	svc := service.NewAtividadeService(newStubAtividadeRepo(), newStubServicoRepo())

	res, err := svc.Criar(context.Background(), dto.AtividadeRequest{
		Nome:             "  Estética  ",
		AliquotaTotalPct: decPtr("-6.123456"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Estética", res.Nome)
	assert.Equal(t, "6.1235", res.AliquotaTotalPct.String())
	assert.True(t, res.IssPct.IsZero())
	assert.True(t, res.Ativo)

	_, err = svc.Criar(context.Background(), dto.AtividadeRequest{})
	assert.Equal(t, 400, apierror.Status(err))
}

func TestAtividade_DeletarWithServicosIsRejected(t *testing.T) {
	ctx := context.Background()
	atividades, servicos := newStubAtividadeRepo(), newStubServicoRepo()
	svc := service.NewAtividadeService(atividades, servicos)

	a, err := svc.Criar(ctx, dto.AtividadeRequest{Nome: "Saúde"})
	require.NoError(t, err)
	require.NoError(t, servicos.Create(ctx, &model.Servico{Nome: "Consulta", AtividadeID: a.ID}))

	err = svc.Deletar(ctx, a.ID)
	assert.Equal(t, 400, apierror.Status(err))

	assert.Equal(t, 404, apierror.Status(svc.Deletar(ctx, 999)))
}

func TestAtividade_ListarByTituloAndAtivo(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAtividadeService(newStubAtividadeRepo(), newStubServicoRepo())
	for _, nome := range []string{"Estética", "Fisioterapia", "estetica avançada"} {
		_, err := svc.Criar(ctx, dto.AtividadeRequest{Nome: nome})
		require.NoError(t, err)
	}
	_, err := svc.AlterarStatus(ctx, 3, false)
	require.NoError(t, err)

	ativo := true
	page, err := svc.Listar(ctx, dto.AtividadeFilter{
		ListQuery: dto.ListQuery{Ativo: &ativo, Size: 10},
		Titulo:    "ESTETICA",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, "Estética", page.Content[0].Nome)

	page, err = svc.Listar(ctx, dto.AtividadeFilter{ListQuery: dto.ListQuery{Page: 1, Size: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Len(t, page.Content, 1)
	assert.True(t, page.Last)
	assert.Equal(t, 2, page.TotalPages)
}

func TestMaterial_CriarDerivesUnitCost(t *testing.T) {
	svc := service.NewMaterialService(newStubMaterialRepo())

	res, err := svc.Criar(context.Background(), dto.MaterialRequest{
		Produto:         "Álcool 70%",
		UnidadeMedida:   "mililitro",
		VolumeEmbalagem: decPtr("2.00"),
		PrecoEmbalagem:  decPtr("10.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ML", res.UnidadeMedida)
	assert.Equal(t, "MILILITRO", res.UnidadeMedidaNome)
	assert.Equal(t, "5.000000", res.CustoUnitario.StringFixed(6))
	assert.True(t, res.Ativo)
}

func TestMaterial_UpdateKeepsAtivoWhenOmitted(t *testing.T) {
	ctx := context.Background()
	svc := service.NewMaterialService(newStubMaterialRepo())

	m, err := svc.Criar(ctx, dto.MaterialRequest{Produto: "Gaze", UnidadeMedida: "UN"})
	require.NoError(t, err)
	_, err = svc.AlterarStatus(ctx, m.ID, false)
	require.NoError(t, err)

	up, err := svc.Atualizar(ctx, m.ID, dto.MaterialRequest{Produto: "Gaze estéril", UnidadeMedida: "UN", PrecoEmbalagem: decPtr("8")})
	require.NoError(t, err)
	assert.False(t, up.Ativo)
	assert.True(t, up.CustoUnitario.IsZero())
}

func TestMaterial_Validation(t *testing.T) {
	svc := service.NewMaterialService(newStubMaterialRepo())
	ctx := context.Background()

	_, err := svc.Criar(ctx, dto.MaterialRequest{UnidadeMedida: "UN"})
	assert.Equal(t, "Produto é obrigatório", apierror.Message(err))

	_, err = svc.Criar(ctx, dto.MaterialRequest{Produto: "X", UnidadeMedida: "barril"})
	assert.Equal(t, "Unidade de medida inválida: barril", apierror.Message(err))

	_, err = svc.BuscarPorID(ctx, 42)
	assert.Equal(t, 404, apierror.Status(err))
}

func TestConfiguracoes_DerivedRatesAndAtiva(t *testing.T) {
	ctx := context.Background()
	svc := service.NewConfiguracoesService(newStubConfiguracoesRepo())

	first, err := svc.Criar(ctx, dto.ConfiguracoesRequest{
		PretensaoSalarialMensal: decPtr("5000"),
		HorasSemanais:           decPtr("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, "4.33", first.SemanasMediaMes.String())
	assert.Equal(t, "173.2", first.HorasMensais.String())
	assert.Equal(t, "28.86836028", first.ValorHora.String())
	assert.Equal(t, "0.48113934", first.ValorMinuto.String())

	second, err := svc.Criar(ctx, dto.ConfiguracoesRequest{PretensaoSalarialMensal: decPtr("6000"), HorasSemanais: decPtr("30")})
	require.NoError(t, err)

	ativa, err := svc.Ativa(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, ativa.ID)

	_, err = svc.AlterarStatus(ctx, second.ID, false)
	require.NoError(t, err)
	ativa, err = svc.Ativa(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, ativa.ID)

	require.NoError(t, svc.Deletar(ctx, first.ID))
	_, err = svc.Ativa(ctx)
	assert.Equal(t, 404, apierror.Status(err))
}
