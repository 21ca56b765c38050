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

	"github.com/shopspring/decimal"
)

type ServicoService interface {
	Listar(ctx context.Context, f dto.ServicoFilter) (dto.PageResponse[dto.ServicoResponse], error)
	Detalhar(ctx context.Context, id int64) (*dto.ServicoDetailResponse, error)
	Criar(ctx context.Context, req dto.ServicoRequest) (*dto.ServicoDetailResponse, error)
	Atualizar(ctx context.Context, id int64, req dto.ServicoRequest) (*dto.ServicoDetailResponse, error)
	AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.ServicoResponse, error)
	Deletar(ctx context.Context, id int64) error
}

const servicoNaoEncontrado = "Serviço não encontrado"

var servicoComparators = map[string]listing.Comparator[model.Servico]{
	"id":             func(a, b model.Servico) int { return listing.Ordered(a.ID, b.ID) },
	"nome":           func(a, b model.Servico) int { return listing.Text(a.Nome, b.Nome) },
	"grupo":          func(a, b model.Servico) int { return listing.Text(a.Grupo, b.Grupo) },
	"duracaoMinutos": func(a, b model.Servico) int { return listing.Ordered(a.DuracaoMinutos, b.DuracaoMinutos) },
	"ativo":          func(a, b model.Servico) int { return listing.Bool(a.Ativo, b.Ativo) },
}

type servicoService struct {
	tx         repository.TransactionManager
	repo       repository.ServicoRepository
	atividades repository.AtividadeRepository
	materiais  repository.MaterialRepository
	precos     *precoService
	cache      PrecoCache
}

// NewServicoService shares d with the price service so that a price sent
// along with the servico is versioned in the same transaction.
func NewServicoService(d PrecoDeps) ServicoService {
	return &servicoService{
		tx:         d.Tx,
		repo:       d.Servicos,
		atividades: d.Atividades,
		materiais:  d.Materiais,
		precos:     newPrecoService(d),
		cache:      d.Cache,
	}
}

// invalidatePrecos drops the cached current-price list, which carries the
// servico names.
func (s *servicoService) invalidatePrecos(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *servicoService) Listar(ctx context.Context, f dto.ServicoFilter) (dto.PageResponse[dto.ServicoResponse], error) {
	nome, grupo := strings.TrimSpace(f.Nome), strings.TrimSpace(f.Grupo)
	page, err := list(ctx, listQuery[model.Servico]{
		query:      f.ListQuery,
		textFilter: nome != "" || grupo != "",
		match: func(sv model.Servico) bool {
			return listing.Contains(sv.Nome, nome) && listing.Contains(sv.Grupo, grupo)
		},
		ativo:       func(sv model.Servico) bool { return sv.Ativo },
		comparators: servicoComparators,
	}, s.repo.FindAll, s.repo.List, toServicoResponse)
	return page, fail("servico.listar", 0, err)
}

func (s *servicoService) Detalhar(ctx context.Context, id int64) (*dto.ServicoDetailResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("servico.detalhar", id, err, servicoNaoEncontrado)
	}
	resp, err := s.detail(ctx, sv)
	return resp, fail("servico.detalhar", id, err)
}

func (s *servicoService) detail(ctx context.Context, sv *model.Servico) (*dto.ServicoDetailResponse, error) {
	resp := &dto.ServicoDetailResponse{
		ID:                   sv.ID,
		Nome:                 sv.Nome,
		Grupo:                sv.Grupo,
		DuracaoMinutos:       sv.DuracaoMinutos,
		AtividadeID:          sv.AtividadeID,
		MargemLucroCustomPct: sv.MargemLucroCustomPct,
		Ativo:                sv.Ativo,
		Materiais:            []dto.ServicoMaterialResponse{},
	}

	a, err := s.atividades.FindByID(ctx, sv.AtividadeID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if a != nil {
		resp.AtividadeNome = a.Nome
		resp.AtividadeAliquotaTotalPct = a.AliquotaTotalPct
		resp.AtividadeIssPct = a.IssPct
	}

	ids := make([]int64, len(sv.Materiais))
	for i, sm := range sv.Materiais {
		ids[i] = sm.MaterialID
	}
	mats, err := s.materiais.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Material, len(mats))
	for _, m := range mats {
		byID[m.ID] = m
	}
	for _, sm := range sv.Materiais {
		m := byID[sm.MaterialID]
		resp.Materiais = append(resp.Materiais, dto.ServicoMaterialResponse{
			ID:              sm.ID,
			MaterialID:      sm.MaterialID,
			Produto:         m.Produto,
			CustoUnitario:   m.CustoUnitario,
			QuantidadeUsada: sm.QuantidadeUsada,
			CustoTotal:      pricing.MaterialUseCost(sm.QuantidadeUsada, m.CustoUnitario),
		})
	}

	p, err := s.precos.vigenteOuUltimo(ctx, sv.ID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		preco := p.Preco
		resp.PrecoVigente = &preco
	}
	return resp, nil
}

func (s *servicoService) Criar(ctx context.Context, req dto.ServicoRequest) (*dto.ServicoDetailResponse, error) {
	sv := &model.Servico{Ativo: true}
	return s.save(ctx, "servico.criar", sv, req)
}

func (s *servicoService) Atualizar(ctx context.Context, id int64, req dto.ServicoRequest) (*dto.ServicoDetailResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("servico.atualizar", id, err, servicoNaoEncontrado)
	}
	return s.save(ctx, "servico.atualizar", sv, req)
}

// save validates req, writes sv with its materials and, when requested,
// the new practiced price in a single transaction.
func (s *servicoService) save(ctx context.Context, op string, sv *model.Servico, req dto.ServicoRequest) (*dto.ServicoDetailResponse, error) {
	if err := applyServico(sv, req); err != nil {
		return nil, err
	}

	var ch *precoChange
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.atividades.FindByID(txCtx, sv.AtividadeID); err != nil {
			if repository.IsNotFound(err) {
				return apierror.Invalid("Atividade inválida")
			}
			return err
		}
		if req.Materiais != nil {
			mats, err := s.resolveMateriais(txCtx, req.Materiais)
			if err != nil {
				return err
			}
			sv.Materiais = mergeMateriais(sv.Materiais, mats)
		}

		var err error
		if sv.ID == 0 {
			err = s.repo.Create(txCtx, sv)
		} else {
			err = s.repo.Update(txCtx, sv)
		}
		if err != nil {
			return err
		}

		if req.PrecoPraticado != nil {
			ch, err = s.precos.definir(txCtx, sv.ID, req.PrecoPraticado)
		}
		return err
	})
	if err != nil {
		return nil, fail(op, sv.ID, err)
	}
	if ch == nil || !ch.changed {
		s.invalidatePrecos(ctx)
	}
	s.precos.publicar(ctx, ch)

	saved, err := s.repo.FindByID(ctx, sv.ID)
	if err != nil {
		return nil, fail(op, sv.ID, err)
	}
	resp, err := s.detail(ctx, saved)
	return resp, fail(op, sv.ID, err)
}

// resolveMateriais validates the requested materials. Repeated material ids
// collapse into one entry and the last quantity wins.
func (s *servicoService) resolveMateriais(ctx context.Context, reqs []dto.ServicoMaterialRequest) ([]model.ServicoMaterial, error) {
	order := make([]int64, 0, len(reqs))
	qty := make(map[int64]decimal.Decimal, len(reqs))
	for _, r := range reqs {
		if r.MaterialID == nil || *r.MaterialID <= 0 {
			return nil, apierror.Invalid("Material inválido")
		}
		q := r.QuantidadeUsada.Abs().Round(4)
		if !q.IsPositive() {
			return nil, apierror.Invalid("Quantidade do material deve ser positiva")
		}
		id := *r.MaterialID
		if _, seen := qty[id]; !seen {
			order = append(order, id)
		}
		qty[id] = q
	}

	found, err := s.materiais.FindByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	if len(found) != len(order) {
		return nil, apierror.Invalid("Material não encontrado")
	}

	out := make([]model.ServicoMaterial, len(order))
	for i, id := range order {
		out[i] = model.ServicoMaterial{MaterialID: id, QuantidadeUsada: qty[id]}
	}
	return out, nil
}

// mergeMateriais keeps the row ids of materials already linked, updates
// their quantities, adds new ones and drops the rest.
func mergeMateriais(current, wanted []model.ServicoMaterial) []model.ServicoMaterial {
	existing := make(map[int64]model.ServicoMaterial, len(current))
	for _, sm := range current {
		existing[sm.MaterialID] = sm
	}
	out := make([]model.ServicoMaterial, len(wanted))
	for i, w := range wanted {
		if sm, ok := existing[w.MaterialID]; ok {
			sm.QuantidadeUsada = w.QuantidadeUsada
			out[i] = sm
			continue
		}
		out[i] = w
	}
	return out
}

func (s *servicoService) AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.ServicoResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("servico.status", id, err, servicoNaoEncontrado)
	}
	sv.Ativo = ativo
	if err := s.repo.Update(ctx, sv); err != nil {
		return nil, fail("servico.status", id, err)
	}
	s.invalidatePrecos(ctx)
	resp := toServicoResponse(*sv)
	return &resp, nil
}

func (s *servicoService) Deletar(ctx context.Context, id int64) error {
	var deleted bool
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.repo.Delete(txCtx, id)
		return err
	})
	if err != nil {
		return fail("servico.deletar", id, err)
	}
	if !deleted {
		return apierror.NotFound(servicoNaoEncontrado)
	}
	s.invalidatePrecos(ctx)
	return nil
}

func applyServico(sv *model.Servico, req dto.ServicoRequest) error {
	nome := strings.TrimSpace(req.Nome)
	grupo := strings.TrimSpace(req.Grupo)
	switch {
	case nome == "":
		return apierror.Invalid("Nome do serviço é obrigatório")
	case grupo == "":
		return apierror.Invalid("Categoria do serviço (grupo) é obrigatória")
	case req.DuracaoMinutos <= 0:
		return apierror.Invalid("Duração (minutos) deve ser positiva")
	case req.AtividadeID == nil:
		return apierror.Invalid("Atividade é obrigatória")
	case *req.AtividadeID <= 0:
		return apierror.Invalid("Atividade inválida")
	}

	sv.Nome = nome
	sv.Grupo = grupo
	sv.DuracaoMinutos = req.DuracaoMinutos
	sv.AtividadeID = *req.AtividadeID
	// null clears the custom margin and falls back to the configured one
	sv.MargemLucroCustomPct = nil
	if req.MargemLucroCustomPct != nil {
		m := pct(req.MargemLucroCustomPct)
		sv.MargemLucroCustomPct = &m
	}
	sv.Ativo = boolOr(req.Ativo, sv.Ativo)
	return nil
}

func toServicoResponse(sv model.Servico) dto.ServicoResponse {
	return dto.ServicoResponse{
		ID:                   sv.ID,
		Nome:                 sv.Nome,
		Grupo:                sv.Grupo,
		DuracaoMinutos:       sv.DuracaoMinutos,
		AtividadeID:          sv.AtividadeID,
		MargemLucroCustomPct: sv.MargemLucroCustomPct,
		Ativo:                sv.Ativo,
	}
}
