package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"finesse/internal/cache"
	"finesse/internal/dto"
	"finesse/internal/listing"
	"finesse/internal/model"
	"finesse/internal/repository"

	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────

type stubTx struct{ calls int }

func (t *stubTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func pageOf[T any](rows []T, p repository.ListParams) ([]T, int64, error) {
	page := listing.Paginate(rows, p.Page, p.Size)
	return page.Content, page.Total, nil
}

type stubAtividadeRepo struct {
	rows   map[int64]model.Atividade
	nextID int64
}

var _ repository.AtividadeRepository = (*stubAtividadeRepo)(nil)

func newStubAtividadeRepo() *stubAtividadeRepo {
	return &stubAtividadeRepo{rows: map[int64]model.Atividade{}}
}

func (r *stubAtividadeRepo) Create(_ context.Context, a *model.Atividade) error {
	r.nextID++
	a.ID = r.nextID
	r.rows[a.ID] = *a
	return nil
}

func (r *stubAtividadeRepo) Update(_ context.Context, a *model.Atividade) error {
	r.rows[a.ID] = *a
	return nil
}

func (r *stubAtividadeRepo) FindByID(_ context.Context, id int64) (*model.Atividade, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *stubAtividadeRepo) FindAll(_ context.Context) ([]model.Atividade, error) {
	out := make([]model.Atividade, 0, len(r.rows))
	for _, a := range r.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubAtividadeRepo) List(ctx context.Context, p repository.ListParams) ([]model.Atividade, int64, error) {
	all, _ := r.FindAll(ctx)
	return pageOf(listing.Filter(all, func(a model.Atividade) bool { return listing.MatchesAtivo(p.Ativo, a.Ativo) }), p)
}

func (r *stubAtividadeRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

type stubMaterialRepo struct {
	rows   map[int64]model.Material
	nextID int64
}

var _ repository.MaterialRepository = (*stubMaterialRepo)(nil)

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{rows: map[int64]model.Material{}}
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	r.nextID++
	m.ID = r.nextID
	_ = m.BeforeSave(nil)
	r.rows[m.ID] = *m
	return nil
}

func (r *stubMaterialRepo) Update(_ context.Context, m *model.Material) error {
	_ = m.BeforeSave(nil)
	r.rows[m.ID] = *m
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id int64) (*model.Material, error) {
	m, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *stubMaterialRepo) FindByIDs(_ context.Context, ids []int64) ([]model.Material, error) {
	var out []model.Material
	for _, id := range ids {
		if m, ok := r.rows[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMaterialRepo) FindAll(_ context.Context) ([]model.Material, error) {
	out := make([]model.Material, 0, len(r.rows))
	for _, m := range r.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubMaterialRepo) List(ctx context.Context, p repository.ListParams) ([]model.Material, int64, error) {
	all, _ := r.FindAll(ctx)
	return pageOf(listing.Filter(all, func(m model.Material) bool { return listing.MatchesAtivo(p.Ativo, m.Ativo) }), p)
}

func (r *stubMaterialRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

type stubServicoRepo struct {
	rows   map[int64]model.Servico
	nextID int64
	smID   int64
	locks  int
}

var _ repository.ServicoRepository = (*stubServicoRepo)(nil)

func newStubServicoRepo() *stubServicoRepo {
	return &stubServicoRepo{rows: map[int64]model.Servico{}}
}

func (r *stubServicoRepo) store(s *model.Servico) {
	mats := make([]model.ServicoMaterial, len(s.Materiais))
	for i, sm := range s.Materiais {
		if sm.ID == 0 {
			r.smID++
			sm.ID = r.smID
		}
		sm.ServicoID = s.ID
		mats[i] = sm
	}
	s.Materiais = mats
	cp := *s
	cp.Materiais = append([]model.ServicoMaterial(nil), mats...)
	r.rows[s.ID] = cp
}

func (r *stubServicoRepo) Create(_ context.Context, s *model.Servico) error {
	r.nextID++
	s.ID = r.nextID
	r.store(s)
	return nil
}

func (r *stubServicoRepo) Update(_ context.Context, s *model.Servico) error {
	r.store(s)
	return nil
}

func (r *stubServicoRepo) FindByID(_ context.Context, id int64) (*model.Servico, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s.Materiais = append([]model.ServicoMaterial(nil), s.Materiais...)
	return &s, nil
}

func (r *stubServicoRepo) FindByIDForUpdate(ctx context.Context, id int64) (*model.Servico, error) {
	r.locks++
	return r.FindByID(ctx, id)
}

func (r *stubServicoRepo) FindAll(_ context.Context) ([]model.Servico, error) {
	out := make([]model.Servico, 0, len(r.rows))
	for _, s := range r.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubServicoRepo) CountByAtividade(_ context.Context, atividadeID int64) (int64, error) {
	var n int64
	for _, s := range r.rows {
		if s.AtividadeID == atividadeID {
			n++
		}
	}
	return n, nil
}

func (r *stubServicoRepo) List(ctx context.Context, p repository.ListParams) ([]model.Servico, int64, error) {
	all, _ := r.FindAll(ctx)
	return pageOf(listing.Filter(all, func(s model.Servico) bool { return listing.MatchesAtivo(p.Ativo, s.Ativo) }), p)
}

func (r *stubServicoRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

// stubPrecoRepo records every write so tests can count them.
type stubPrecoRepo struct {
	rows    []model.PrecoPraticado
	nextID  int64
	creates int
	updates int
	nomes   map[int64]string
}

var _ repository.PrecoPraticadoRepository = (*stubPrecoRepo)(nil)

func newStubPrecoRepo() *stubPrecoRepo { return &stubPrecoRepo{nomes: map[int64]string{}} }

func (r *stubPrecoRepo) Create(_ context.Context, p *model.PrecoPraticado) error {
	r.creates++
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.rows = append(r.rows, *p)
	return nil
}

func (r *stubPrecoRepo) Update(_ context.Context, p *model.PrecoPraticado) error {
	r.updates++
	for i := range r.rows {
		if r.rows[i].ID == p.ID {
			r.rows[i] = *p
		}
	}
	return nil
}

func (r *stubPrecoRepo) newest(servicoID int64, onlyVigente bool) (*model.PrecoPraticado, error) {
	var best *model.PrecoPraticado
	for i := range r.rows {
		p := r.rows[i]
		if p.ServicoID != servicoID || (onlyVigente && !p.Vigente) {
			continue
		}
		if best == nil || time.Time(p.VigenciaInicio).After(time.Time(best.VigenciaInicio)) ||
			(time.Time(p.VigenciaInicio).Equal(time.Time(best.VigenciaInicio)) && p.ID > best.ID) {
			cp := p
			best = &cp
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubPrecoRepo) FindVigente(_ context.Context, servicoID int64) (*model.PrecoPraticado, error) {
	return r.newest(servicoID, true)
}

func (r *stubPrecoRepo) FindLatest(_ context.Context, servicoID int64) (*model.PrecoPraticado, error) {
	return r.newest(servicoID, false)
}

func (r *stubPrecoRepo) ListByServico(_ context.Context, servicoID int64) ([]model.PrecoPraticado, error) {
	var out []model.PrecoPraticado
	for _, p := range r.rows {
		if p.ServicoID == servicoID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubPrecoRepo) CurrentPrices(_ context.Context) ([]repository.CurrentPrice, error) {
	var out []repository.CurrentPrice
	for id, nome := range r.nomes {
		cp := repository.CurrentPrice{ServicoID: id, Nome: nome}
		if p, err := r.newest(id, true); err == nil {
			cp.Preco.Decimal, cp.Preco.Valid = p.Preco, true
		} else if p, err := r.newest(id, false); err == nil {
			cp.Preco.Decimal, cp.Preco.Valid = p.Preco, true
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServicoID < out[j].ServicoID })
	return out, nil
}

type stubConfiguracoesRepo struct {
	rows   map[int64]model.Configuracoes
	nextID int64
}

var _ repository.ConfiguracoesRepository = (*stubConfiguracoesRepo)(nil)

func newStubConfiguracoesRepo() *stubConfiguracoesRepo {
	return &stubConfiguracoesRepo{rows: map[int64]model.Configuracoes{}}
}

func (r *stubConfiguracoesRepo) Create(_ context.Context, c *model.Configuracoes) error {
	r.nextID++
	c.ID = r.nextID
	c.AtualizadoEm = time.Now()
	r.rows[c.ID] = *c
	return nil
}

func (r *stubConfiguracoesRepo) Update(_ context.Context, c *model.Configuracoes) error {
	c.AtualizadoEm = time.Now()
	r.rows[c.ID] = *c
	return nil
}

func (r *stubConfiguracoesRepo) FindByID(_ context.Context, id int64) (*model.Configuracoes, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubConfiguracoesRepo) FindAtiva(_ context.Context) (*model.Configuracoes, error) {
	var best *model.Configuracoes
	for _, c := range r.rows {
		if !c.Ativo {
			continue
		}
		if best == nil || c.ID > best.ID {
			cp := c
			best = &cp
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubConfiguracoesRepo) List(_ context.Context, p repository.ListParams) ([]model.Configuracoes, int64, error) {
	var all []model.Configuracoes
	for _, c := range r.rows {
		if listing.MatchesAtivo(p.Ativo, c.Ativo) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return pageOf(all, p)
}

func (r *stubConfiguracoesRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

type stubUsuarioRepo struct {
	users  map[int64]*model.Usuario
	nextID int64
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: map[int64]*model.Usuario{}}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id int64) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUsuarioRepo) ListAtivos(ctx context.Context) ([]model.Usuario, error) {
	all, _ := r.ListAll(ctx)
	return listing.Filter(all, func(u model.Usuario) bool { return u.Ativo }), nil
}

func (r *stubUsuarioRepo) Count(_ context.Context) (int64, error) { return int64(len(r.users)), nil }

func (r *stubUsuarioRepo) CountAtivos(ctx context.Context) (int64, error) {
	a, _ := r.ListAtivos(ctx)
	return int64(len(a)), nil
}

func (r *stubUsuarioRepo) CountByPerfil(_ context.Context, perfil model.Perfil) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Perfil == perfil {
			n++
		}
	}
	return n, nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	delete(r.users, id)
	return ok, nil
}

// ── Cache and notifier stubs ─────────────────────────────────────────────────

type stubCache struct {
	invalidations int
}

func (c *stubCache) Get(ctx context.Context, load cache.Loader) ([]dto.PrecoAtualResponse, error) {
	return load(ctx)
}

func (c *stubCache) Invalidate(context.Context) { c.invalidations++ }

type stubNotifier struct {
	events []dto.PrecoAlteradoEvent
}

func (n *stubNotifier) PrecoAlterado(_ context.Context, ev dto.PrecoAlteradoEvent) error {
	n.events = append(n.events, ev)
	return nil
}

func (r *stubPrecoRepo) FindByIDForTest(id int64) (*model.PrecoPraticado, error) {
	for _, p := range r.rows {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
