package service

import (
	"context"
	"time"

	"finesse/internal/apierror"
	"finesse/internal/cache"
	"finesse/internal/dto"
	"finesse/internal/model"
	"finesse/internal/pricing"
	"finesse/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Same-day transition policies for DefinirPreco.
const (
	PolicyHoje   = "hoje"
	PolicyAmanha = "amanha"
)

var precoLimite = decimal.NewFromInt(1_000_000)

// PrecoCache is the read-through cache of current prices.
type PrecoCache interface {
	Get(ctx context.Context, load cache.Loader) ([]dto.PrecoAtualResponse, error)
	Invalidate(ctx context.Context)
}

// PrecoNotifier publishes price changes after commit.
type PrecoNotifier interface {
	PrecoAlterado(ctx context.Context, ev dto.PrecoAlteradoEvent) error
}

type PrecoService interface {
	// DefinirPreco makes preco the vigente price of the servico, closing the
	// previous one. Setting the price already in effect is a no-op.
	DefinirPreco(ctx context.Context, servicoID int64, preco *decimal.Decimal) (*dto.PrecoSetResponse, error)
	Historico(ctx context.Context, servicoID int64) ([]dto.PrecoPraticadoResponse, error)
	PrecosAtuais(ctx context.Context) ([]dto.PrecoAtualResponse, error)
	Precificacao(ctx context.Context, servicoID int64) (*dto.PrecificacaoResponse, error)
}

// precoChange is the outcome of one definir call inside a transaction.
type precoChange struct {
	changed bool
	vigente model.PrecoPraticado
	event   dto.PrecoAlteradoEvent
}

type precoService struct {
	tx        repository.TransactionManager
	servicos  repository.ServicoRepository
	precos    repository.PrecoPraticadoRepository
	atividade repository.AtividadeRepository
	materiais repository.MaterialRepository
	config    repository.ConfiguracoesRepository
	cache     PrecoCache
	notifier  PrecoNotifier
	policy    string
	now       func() time.Time
}

type PrecoDeps struct {
	Tx            repository.TransactionManager
	Servicos      repository.ServicoRepository
	Precos        repository.PrecoPraticadoRepository
	Atividades    repository.AtividadeRepository
	Materiais     repository.MaterialRepository
	Configuracoes repository.ConfiguracoesRepository
	Cache         PrecoCache
	Notifier      PrecoNotifier
	Policy        string
	Now           func() time.Time
}

func NewPrecoService(d PrecoDeps) PrecoService {
	return newPrecoService(d)
}

func newPrecoService(d PrecoDeps) *precoService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Policy == "" {
		d.Policy = PolicyHoje
	}
	return &precoService{
		tx:        d.Tx,
		servicos:  d.Servicos,
		precos:    d.Precos,
		atividade: d.Atividades,
		materiais: d.Materiais,
		config:    d.Configuracoes,
		cache:     d.Cache,
		notifier:  d.Notifier,
		policy:    d.Policy,
		now:       d.Now,
	}
}

func (s *precoService) DefinirPreco(ctx context.Context, servicoID int64, preco *decimal.Decimal) (*dto.PrecoSetResponse, error) {
	var ch *precoChange
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		ch, err = s.definir(txCtx, servicoID, preco)
		return err
	})
	if err != nil {
		return nil, fail("preco.definir", servicoID, err)
	}
	s.publicar(ctx, ch)
	return &dto.PrecoSetResponse{Changed: ch.changed, Vigente: toPrecoResponse(ch.vigente)}, nil
}

// definir must run inside a transaction: the servico row lock serializes
// concurrent writers and the partial unique index catches anything left.
func (s *precoService) definir(ctx context.Context, servicoID int64, preco *decimal.Decimal) (*precoChange, error) {
	if preco == nil {
		return nil, apierror.Invalid("Preço é obrigatório")
	}
	novo := preco.Abs().Round(2)
	if novo.GreaterThan(precoLimite) {
		return nil, apierror.Invalid("Preço deve estar entre 0 e 1.000.000")
	}

	servico, err := s.servicos.FindByIDForUpdate(ctx, servicoID)
	if repository.IsNotFound(err) {
		return nil, apierror.Invalid("Serviço não encontrado")
	}
	if err != nil {
		return nil, err
	}

	atual, err := s.precos.FindVigente(ctx, servicoID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if atual != nil && atual.Preco.Equal(novo) {
		return &precoChange{changed: false, vigente: *atual}, nil
	}

	hoje := model.Date(s.now())
	inicio := hoje
	var anterior *decimal.Decimal
	if atual != nil {
		if s.policy == PolicyAmanha && !time.Time(atual.VigenciaInicio).Before(time.Time(hoje)) {
			inicio = datatypes.Date(time.Time(hoje).AddDate(0, 0, 1))
		}
		fim := hoje
		atual.Vigente = false
		atual.VigenciaFim = &fim
		if err := s.precos.Update(ctx, atual); err != nil {
			return nil, err
		}
		p := atual.Preco
		anterior = &p
	}

	row := model.PrecoPraticado{
		ServicoID:      servicoID,
		Preco:          novo,
		VigenciaInicio: inicio,
		Vigente:        true,
	}
	if err := s.precos.Create(ctx, &row); err != nil {
		if repository.IsUniqueViolation(err, repository.VigenteIndex) {
			return nil, apierror.Invalid("Preço alterado concorrentemente, tente novamente")
		}
		return nil, err
	}

	return &precoChange{
		changed: true,
		vigente: row,
		event: dto.PrecoAlteradoEvent{
			ServicoID:      servicoID,
			Nome:           servico.Nome,
			PrecoAnterior:  anterior,
			PrecoNovo:      novo,
			VigenciaInicio: model.FormatDate(inicio),
		},
	}, nil
}

// publicar runs after commit. Failures are logged only.
func (s *precoService) publicar(ctx context.Context, ch *precoChange) {
	if ch == nil || !ch.changed {
		return
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.notifier != nil {
		if err := s.notifier.PrecoAlterado(ctx, ch.event); err != nil {
			log.Warn().Err(err).Int64("servico_id", ch.event.ServicoID).Msg("preco: evento não publicado")
		}
	}
}

// vigenteOuUltimo returns the vigente row, the newest row when none is
// flagged, or nil when the servico has no history.
func (s *precoService) vigenteOuUltimo(ctx context.Context, servicoID int64) (*model.PrecoPraticado, error) {
	p, err := s.precos.FindVigente(ctx, servicoID)
	if err == nil {
		return p, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}
	p, err = s.precos.FindLatest(ctx, servicoID)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	return p, err
}

func (s *precoService) Historico(ctx context.Context, servicoID int64) ([]dto.PrecoPraticadoResponse, error) {
	if _, err := s.servicos.FindByID(ctx, servicoID); err != nil {
		return nil, notFoundOr("preco.historico", servicoID, err, servicoNaoEncontrado)
	}
	rows, err := s.precos.ListByServico(ctx, servicoID)
	if err != nil {
		return nil, fail("preco.historico", servicoID, err)
	}
	out := make([]dto.PrecoPraticadoResponse, len(rows))
	for i, r := range rows {
		out[i] = toPrecoResponse(r)
	}
	return out, nil
}

func (s *precoService) PrecosAtuais(ctx context.Context) ([]dto.PrecoAtualResponse, error) {
	load := func(ctx context.Context) ([]dto.PrecoAtualResponse, error) {
		rows, err := s.precos.CurrentPrices(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.PrecoAtualResponse, len(rows))
		for i, r := range rows {
			out[i] = dto.PrecoAtualResponse{ServicoID: r.ServicoID, Nome: r.Nome}
			if r.Preco.Valid {
				p := r.Preco.Decimal
				out[i].Preco = &p
			}
		}
		return out, nil
	}

	var out []dto.PrecoAtualResponse
	var err error
	if s.cache != nil {
		out, err = s.cache.Get(ctx, load)
	} else {
		out, err = load(ctx)
	}
	if err != nil {
		return nil, fail("preco.atuais", 0, err)
	}
	return out, nil
}

func (s *precoService) Precificacao(ctx context.Context, servicoID int64) (*dto.PrecificacaoResponse, error) {
	const op = "preco.precificacao"

	servico, err := s.servicos.FindByID(ctx, servicoID)
	if err != nil {
		return nil, notFoundOr(op, servicoID, err, servicoNaoEncontrado)
	}
	atividade, err := s.atividade.FindByID(ctx, servico.AtividadeID)
	if err != nil {
		return nil, notFoundOr(op, servicoID, err, atividadeNaoEncontrada)
	}
	cfg, err := s.config.FindAtiva(ctx)
	if repository.IsNotFound(err) {
		return nil, apierror.Invalid("Nenhuma configuração ativa encontrada")
	}
	if err != nil {
		return nil, fail(op, servicoID, err)
	}

	ids := make([]int64, len(servico.Materiais))
	for i, sm := range servico.Materiais {
		ids[i] = sm.MaterialID
	}
	mats, err := s.materiais.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fail(op, servicoID, err)
	}
	custos := make(map[int64]decimal.Decimal, len(mats))
	for _, m := range mats {
		custos[m.ID] = m.CustoUnitario
	}

	valorHora := pricing.ValorHora(cfg.PretensaoSalarialMensal, pricing.HorasMensais(cfg.HorasSemanais, cfg.SemanasMediaMes))
	margem := cfg.MargemLucroPadraoPct
	if servico.MargemLucroCustomPct != nil {
		margem = *servico.MargemLucroCustomPct
	}
	in := pricing.Inputs{
		ValorHora:      valorHora,
		DuracaoMinutos: servico.DuracaoMinutos,
		AliquotaPct:    atividade.AliquotaTotalPct,
		CustoFixoPct:   cfg.CustoFixoPct,
		MargemLucroPct: margem,
	}
	for _, sm := range servico.Materiais {
		in.Materiais = append(in.Materiais, pricing.MaterialUse{
			Quantidade:    sm.QuantidadeUsada,
			CustoUnitario: custos[sm.MaterialID],
		})
	}

	atual, err := s.vigenteOuUltimo(ctx, servicoID)
	if err != nil {
		return nil, fail(op, servicoID, err)
	}
	if atual != nil {
		p := atual.Preco
		in.PrecoAtual = &p
	}

	b := pricing.Recalcular(in, decimal.NewFromInt(1))
	return &dto.PrecificacaoResponse{
		ServicoID:       servicoID,
		ValorHora:       valorHora,
		CustoMateriais:  b.CustoMateriais,
		CustoMaoDeObra:  b.CustoMaoDeObra,
		CustoTotal:      b.CustoTotal,
		AliquotaPct:     atividade.AliquotaTotalPct,
		CustoFixoPct:    cfg.CustoFixoPct,
		MargemLucroPct:  margem,
		Markup:          b.Markup,
		PrecoSugerido:   b.PrecoSugerido,
		PrecoAtual:      b.PrecoAtual,
		LucroLiquido:    b.LucroLiquido,
		LucroLiquidoPct: b.LucroLiquidoPct,
	}, nil
}

func toPrecoResponse(p model.PrecoPraticado) dto.PrecoPraticadoResponse {
	r := dto.PrecoPraticadoResponse{
		ID:             p.ID,
		ServicoID:      p.ServicoID,
		Preco:          p.Preco,
		VigenciaInicio: model.FormatDate(p.VigenciaInicio),
		Vigente:        p.Vigente,
	}
	if p.VigenciaFim != nil {
		fim := model.FormatDate(*p.VigenciaFim)
		r.VigenciaFim = &fim
	}
	return r
}
