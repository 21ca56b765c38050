package service

import (
	"context"
	"strings"

	"finesse/internal/apierror"
	"finesse/internal/dto"
	"finesse/internal/listing"
	"finesse/internal/model"
	"finesse/internal/pricing"
	"finesse/internal/repository"
)

type MaterialService interface {
	Listar(ctx context.Context, f dto.MaterialFilter) (dto.PageResponse[dto.MaterialResponse], error)
	BuscarPorID(ctx context.Context, id int64) (*dto.MaterialResponse, error)
	Criar(ctx context.Context, req dto.MaterialRequest) (*dto.MaterialResponse, error)
	Atualizar(ctx context.Context, id int64, req dto.MaterialRequest) (*dto.MaterialResponse, error)
	AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.MaterialResponse, error)
	Deletar(ctx context.Context, id int64) error
}

const materialNaoEncontrado = "Material não encontrado"

var materialComparators = map[string]listing.Comparator[model.Material]{
	"id":              func(a, b model.Material) int { return listing.Ordered(a.ID, b.ID) },
	"produto":         func(a, b model.Material) int { return listing.Text(a.Produto, b.Produto) },
	"unidadeMedida":   func(a, b model.Material) int { return listing.Text(string(a.UnidadeMedida), string(b.UnidadeMedida)) },
	"volumeEmbalagem": func(a, b model.Material) int { return listing.Decimal(a.VolumeEmbalagem, b.VolumeEmbalagem) },
	"precoEmbalagem":  func(a, b model.Material) int { return listing.Decimal(a.PrecoEmbalagem, b.PrecoEmbalagem) },
	"custoUnitario":   func(a, b model.Material) int { return listing.Decimal(a.CustoUnitario, b.CustoUnitario) },
	"ativo":           func(a, b model.Material) int { return listing.Bool(a.Ativo, b.Ativo) },
}

type materialService struct {
	repo repository.MaterialRepository
}

func NewMaterialService(repo repository.MaterialRepository) MaterialService {
	return &materialService{repo: repo}
}

func (s *materialService) Listar(ctx context.Context, f dto.MaterialFilter) (dto.PageResponse[dto.MaterialResponse], error) {
	produto := strings.TrimSpace(f.Produto)
	page, err := list(ctx, listQuery[model.Material]{
		query:       f.ListQuery,
		textFilter:  produto != "",
		match:       func(m model.Material) bool { return listing.Contains(m.Produto, produto) },
		ativo:       func(m model.Material) bool { return m.Ativo },
		comparators: materialComparators,
	}, s.repo.FindAll, s.repo.List, toMaterialResponse)
	return page, fail("material.listar", 0, err)
}

func (s *materialService) BuscarPorID(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("material.buscar", id, err, materialNaoEncontrado)
	}
	resp := toMaterialResponse(*m)
	return &resp, nil
}

func (s *materialService) Criar(ctx context.Context, req dto.MaterialRequest) (*dto.MaterialResponse, error) {
	m := &model.Material{Ativo: true}
	if err := applyMaterial(m, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fail("material.criar", 0, err)
	}
	resp := toMaterialResponse(*m)
	return &resp, nil
}

func (s *materialService) Atualizar(ctx context.Context, id int64, req dto.MaterialRequest) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("material.atualizar", id, err, materialNaoEncontrado)
	}
	if err := applyMaterial(m, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fail("material.atualizar", id, err)
	}
	resp := toMaterialResponse(*m)
	return &resp, nil
}

func (s *materialService) AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("material.status", id, err, materialNaoEncontrado)
	}
	m.Ativo = ativo
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fail("material.status", id, err)
	}
	resp := toMaterialResponse(*m)
	return &resp, nil
}

func (s *materialService) Deletar(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if repository.IsForeignKeyViolation(err) {
		return apierror.Invalid("Material está em uso por serviços")
	}
	if err != nil {
		return fail("material.deletar", id, err)
	}
	if !deleted {
		return apierror.NotFound(materialNaoEncontrado)
	}
	return nil
}

// applyMaterial copies req onto m. The unit cost is derived by the model on save.
func applyMaterial(m *model.Material, req dto.MaterialRequest) error {
	produto := strings.TrimSpace(req.Produto)
	if produto == "" {
		return apierror.Invalid("Produto é obrigatório")
	}
	if strings.TrimSpace(req.UnidadeMedida) == "" {
		return apierror.Invalid("Unidade de medida é obrigatória")
	}
	unidade, err := model.ParseUnidadeMedida(req.UnidadeMedida)
	if err != nil {
		return apierror.Invalid("Unidade de medida inválida: " + req.UnidadeMedida)
	}

	m.Produto = produto
	m.UnidadeMedida = unidade
	if req.VolumeEmbalagem != nil || m.ID == 0 {
		m.VolumeEmbalagem = money(req.VolumeEmbalagem)
	}
	if req.PrecoEmbalagem != nil || m.ID == 0 {
		m.PrecoEmbalagem = money(req.PrecoEmbalagem)
	}
	m.Observacoes = strings.TrimSpace(req.Observacoes)
	m.Ativo = boolOr(req.Ativo, m.Ativo)
	m.CustoUnitario = pricing.UnitCost(m.PrecoEmbalagem, m.VolumeEmbalagem)
	return nil
}

func toMaterialResponse(m model.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:                m.ID,
		Produto:           m.Produto,
		UnidadeMedida:     string(m.UnidadeMedida),
		UnidadeMedidaNome: m.UnidadeMedida.Nome(),
		VolumeEmbalagem:   m.VolumeEmbalagem,
		PrecoEmbalagem:    m.PrecoEmbalagem,
		CustoUnitario:     m.CustoUnitario,
		Observacoes:       m.Observacoes,
		Ativo:             m.Ativo,
		DataAtualizacao:   m.DataAtualizacao,
	}
}
