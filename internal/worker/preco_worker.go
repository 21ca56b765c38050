package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"finesse/internal/dto"
	"finesse/internal/infra"

	"github.com/rs/zerolog/log"
)

type cacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type precoMailer interface {
	SendPrecoAlterado(ev dto.PrecoAlteradoEvent) error
}

// PrecoWorker handles preco.alterado jobs: it drops the current-prices cache
// (again, in case another instance repopulated it before commit was visible)
// and emails the notification when a mailer is configured.
type PrecoWorker struct {
	cache  cacheInvalidator
	mailer precoMailer
	cb     *infra.CircuitBreaker
}

// NewPrecoWorker builds the worker. mailer may be nil when SMTP is not configured.
func NewPrecoWorker(cache cacheInvalidator, mailer precoMailer, cb *infra.CircuitBreaker) *PrecoWorker {
	if cb == nil {
		cb = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	}
	return &PrecoWorker{cache: cache, mailer: mailer, cb: cb}
}

// Process implements HandlerFunc.
func (w *PrecoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var ev dto.PrecoAlteradoEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("preco_worker: invalid payload: %w", err)
	}
	if w.cache != nil {
		w.cache.Invalidate(ctx)
	}
	if w.mailer == nil {
		return nil
	}
	if err := w.cb.Do(ctx, func(context.Context) error { return w.mailer.SendPrecoAlterado(ev) }); err != nil {
		return fmt.Errorf("preco_worker: notify servico %d: %w", ev.ServicoID, err)
	}
	log.Info().Int64("servico_id", ev.ServicoID).Msg("preco_worker: notification sent")
	return nil
}

// Handlers returns the job table for the pool.
func (w *PrecoWorker) Handlers() Handlers {
	return Handlers{JobPrecoAlterado: w.Process}
}
