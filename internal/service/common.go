package service

import (
	"context"
	"maps"
	"slices"

	"finesse/internal/apierror"
	"finesse/internal/dto"
	"finesse/internal/listing"
	"finesse/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// fail passes domain errors through and logs and wraps everything else.
func fail(op string, id int64, err error) error {
	if err == nil || apierror.IsDomain(err) {
		return err
	}
	log.Error().Err(err).Str("op", op).Int64("id", id).Msg("operação falhou")
	return apierror.Operation(op, err)
}

// notFoundOr maps gorm's record-not-found to msg and wraps other failures.
func notFoundOr(op string, id int64, err error, msg string) error {
	if repository.IsNotFound(err) {
		return apierror.NotFound(msg)
	}
	return fail(op, id, err)
}

func pct(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Abs().Round(4)
}

func money(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Abs().Round(2)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// listQuery describes one list request over entity E.
type listQuery[E any] struct {
	query       dto.ListQuery
	textFilter  bool
	match       func(E) bool
	ativo       func(E) bool
	comparators map[string]listing.Comparator[E]
}

// list runs the in-memory path when a text filter is set and pushes the
// query down to the repository otherwise.
func list[E, R any](
	ctx context.Context,
	q listQuery[E],
	loadAll func(context.Context) ([]E, error),
	listDB func(context.Context, repository.ListParams) ([]E, int64, error),
	toResponse func(E) R,
) (dto.PageResponse[R], error) {
	sort := listing.ParseSort(q.query.Sort, slices.Collect(maps.Keys(q.comparators))...)
	page, size := listing.ClampPage(q.query.Page, q.query.Size)

	var rows []E
	var total int64
	if q.textFilter {
		all, err := loadAll(ctx)
		if err != nil {
			return dto.PageResponse[R]{}, err
		}
		filtered := listing.Filter(all, func(e E) bool {
			return q.match(e) && listing.MatchesAtivo(q.query.Ativo, q.ativo(e))
		})
		listing.SortBy(filtered, sort, q.comparators)
		p := listing.Paginate(filtered, page, size)
		rows, total = p.Content, p.Total
	} else {
		var err error
		rows, total, err = listDB(ctx, repository.ListParams{
			Ativo: q.query.Ativo,
			Sort:  sort,
			Page:  page,
			Size:  size,
		})
		if err != nil {
			return dto.PageResponse[R]{}, err
		}
	}

	out := make([]R, len(rows))
	for i, e := range rows {
		out[i] = toResponse(e)
	}
	return dto.NewPage(out, total, page, size), nil
}
