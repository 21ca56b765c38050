// Package cache keeps the current-prices list in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"finesse/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// PrecosAtuaisKey holds the JSON of GET /api/servicos/precos.
const PrecosAtuaisKey = "precos:atuais"

type Loader func(ctx context.Context) ([]dto.PrecoAtualResponse, error)

// PrecosCache is a read-through cache. Concurrent misses share one load.
// A nil client disables caching.
type PrecosCache struct {
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewPrecosCache(rdb *redis.Client, ttl time.Duration) *PrecosCache {
	return &PrecosCache{rdb: rdb, ttl: ttl}
}

func (c *PrecosCache) Get(ctx context.Context, load Loader) ([]dto.PrecoAtualResponse, error) {
	if c.rdb == nil {
		return load(ctx)
	}

	if b, err := c.rdb.Get(ctx, PrecosAtuaisKey).Bytes(); err == nil {
		var out []dto.PrecoAtualResponse
		if jsonErr := json.Unmarshal(b, &out); jsonErr == nil {
			return out, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("cache: leitura de precos falhou")
	}

	v, err, _ := c.group.Do(PrecosAtuaisKey, func() (interface{}, error) {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if b, jsonErr := json.Marshal(out); jsonErr == nil {
			if setErr := c.rdb.Set(context.WithoutCancel(ctx), PrecosAtuaisKey, b, c.ttl).Err(); setErr != nil {
				log.Warn().Err(setErr).Msg("cache: gravação de precos falhou")
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dto.PrecoAtualResponse), nil
}

// Invalidate drops the cached list. Errors are logged, not returned.
func (c *PrecosCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, PrecosAtuaisKey).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: invalidação de precos falhou")
	}
}
