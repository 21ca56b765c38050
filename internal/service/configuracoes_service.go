package service

import (
	"context"

	"finesse/internal/apierror"
	"finesse/internal/dto"
	"finesse/internal/listing"
	"finesse/internal/model"
	"finesse/internal/pricing"
	"finesse/internal/repository"
)

type ConfiguracoesService interface {
	Listar(ctx context.Context, q dto.ListQuery) (dto.PageResponse[dto.ConfiguracoesResponse], error)
	BuscarPorID(ctx context.Context, id int64) (*dto.ConfiguracoesResponse, error)
	// Ativa returns the settings used for pricing.
	Ativa(ctx context.Context) (*dto.ConfiguracoesResponse, error)
	Criar(ctx context.Context, req dto.ConfiguracoesRequest) (*dto.ConfiguracoesResponse, error)
	Atualizar(ctx context.Context, id int64, req dto.ConfiguracoesRequest) (*dto.ConfiguracoesResponse, error)
	AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.ConfiguracoesResponse, error)
	Deletar(ctx context.Context, id int64) error
}

const configuracaoNaoEncontrada = "Configuração não encontrada"

var configuracoesComparators = map[string]listing.Comparator[model.Configuracoes]{
	"id":                      func(a, b model.Configuracoes) int { return listing.Ordered(a.ID, b.ID) },
	"pretensaoSalarialMensal": func(a, b model.Configuracoes) int { return listing.Decimal(a.PretensaoSalarialMensal, b.PretensaoSalarialMensal) },
	"horasSemanais":           func(a, b model.Configuracoes) int { return listing.Decimal(a.HorasSemanais, b.HorasSemanais) },
	"custoFixoPct":            func(a, b model.Configuracoes) int { return listing.Decimal(a.CustoFixoPct, b.CustoFixoPct) },
	"margemLucroPadraoPct":    func(a, b model.Configuracoes) int { return listing.Decimal(a.MargemLucroPadraoPct, b.MargemLucroPadraoPct) },
	"ativo":                   func(a, b model.Configuracoes) int { return listing.Bool(a.Ativo, b.Ativo) },
	"atualizadoEm":            func(a, b model.Configuracoes) int { return a.AtualizadoEm.Compare(b.AtualizadoEm) },
}

type configuracoesService struct {
	repo repository.ConfiguracoesRepository
}

func NewConfiguracoesService(repo repository.ConfiguracoesRepository) ConfiguracoesService {
	return &configuracoesService{repo: repo}
}

func (s *configuracoesService) Listar(ctx context.Context, q dto.ListQuery) (dto.PageResponse[dto.ConfiguracoesResponse], error) {
	page, err := list(ctx, listQuery[model.Configuracoes]{
		query:       q,
		ativo:       func(c model.Configuracoes) bool { return c.Ativo },
		comparators: configuracoesComparators,
	}, nil, s.repo.List, toConfiguracoesResponse)
	return page, fail("configuracoes.listar", 0, err)
}

func (s *configuracoesService) BuscarPorID(ctx context.Context, id int64) (*dto.ConfiguracoesResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("configuracoes.buscar", id, err, configuracaoNaoEncontrada)
	}
	resp := toConfiguracoesResponse(*c)
	return &resp, nil
}

func (s *configuracoesService) Ativa(ctx context.Context) (*dto.ConfiguracoesResponse, error) {
	c, err := s.repo.FindAtiva(ctx)
	if err != nil {
		return nil, notFoundOr("configuracoes.ativa", 0, err, "Nenhuma configuração ativa encontrada")
	}
	resp := toConfiguracoesResponse(*c)
	return &resp, nil
}

func (s *configuracoesService) Criar(ctx context.Context, req dto.ConfiguracoesRequest) (*dto.ConfiguracoesResponse, error) {
	c := &model.Configuracoes{Ativo: true}
	applyConfiguracoes(c, req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fail("configuracoes.criar", 0, err)
	}
	resp := toConfiguracoesResponse(*c)
	return &resp, nil
}

func (s *configuracoesService) Atualizar(ctx context.Context, id int64, req dto.ConfiguracoesRequest) (*dto.ConfiguracoesResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("configuracoes.atualizar", id, err, configuracaoNaoEncontrada)
	}
	applyConfiguracoes(c, req)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fail("configuracoes.atualizar", id, err)
	}
	resp := toConfiguracoesResponse(*c)
	return &resp, nil
}

func (s *configuracoesService) AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.ConfiguracoesResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("configuracoes.status", id, err, configuracaoNaoEncontrada)
	}
	c.Ativo = ativo
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fail("configuracoes.status", id, err)
	}
	resp := toConfiguracoesResponse(*c)
	return &resp, nil
}

func (s *configuracoesService) Deletar(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fail("configuracoes.deletar", id, err)
	}
	if !deleted {
		return apierror.NotFound(configuracaoNaoEncontrada)
	}
	return nil
}

// applyConfiguracoes copies the non-nil fields of req. On create, missing
// values default to zero and semanasMediaMes to 4.33.
func applyConfiguracoes(c *model.Configuracoes, req dto.ConfiguracoesRequest) {
	novo := c.ID == 0
	if req.PretensaoSalarialMensal != nil || novo {
		c.PretensaoSalarialMensal = money(req.PretensaoSalarialMensal)
	}
	if req.HorasSemanais != nil || novo {
		c.HorasSemanais = money(req.HorasSemanais)
	}
	switch {
	case req.SemanasMediaMes != nil:
		c.SemanasMediaMes = pct(req.SemanasMediaMes)
	case novo:
		c.SemanasMediaMes = model.SemanasMediaMesPadrao
	}
	if req.CustoFixoPct != nil || novo {
		c.CustoFixoPct = pct(req.CustoFixoPct)
	}
	if req.MargemLucroPadraoPct != nil || novo {
		c.MargemLucroPadraoPct = pct(req.MargemLucroPadraoPct)
	}
	c.Ativo = boolOr(req.Ativo, c.Ativo)
}

func toConfiguracoesResponse(c model.Configuracoes) dto.ConfiguracoesResponse {
	horas := pricing.HorasMensais(c.HorasSemanais, c.SemanasMediaMes)
	valorHora := pricing.ValorHora(c.PretensaoSalarialMensal, horas)
	return dto.ConfiguracoesResponse{
		ID:                      c.ID,
		PretensaoSalarialMensal: c.PretensaoSalarialMensal,
		HorasSemanais:           c.HorasSemanais,
		SemanasMediaMes:         c.SemanasMediaMes,
		CustoFixoPct:            c.CustoFixoPct,
		MargemLucroPadraoPct:    c.MargemLucroPadraoPct,
		HorasMensais:            horas,
		ValorHora:               valorHora,
		ValorMinuto:             pricing.ValorMinuto(valorHora),
		Ativo:                   c.Ativo,
		AtualizadoEm:            c.AtualizadoEm,
	}
}
