// Package redis contiene el candado distribuido de trabajos batch sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

var _ inventory.JobLocker = (*JobLocker)(nil)

const keyPrefix = "inventory:job:"

// NewClient abre el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// JobLocker impide que dos instancias ejecuten el mismo trabajo (barrido, reparación) a la vez.
// El TTL acota cuánto queda tomado el candado si el proceso muere sin liberarlo.
type JobLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewJobLocker construye el candado sobre un cliente ya conectado.
func NewJobLocker(rdb goredis.UniversalClient, ttl time.Duration, log zerolog.Logger) *JobLocker {
	return &JobLocker{locker: redislock.New(rdb), ttl: ttl, log: log}
}

// Key clave Redis del candado de un trabajo.
func Key(job string) string {
	return keyPrefix + job
}

// Acquire intenta tomar el candado sin reintentos. Devuelve inventory.ErrJobLocked si está tomado.
func (l *JobLocker) Acquire(ctx context.Context, job string) (func(), error) {
	lock, err := l.locker.Obtain(ctx, Key(job), l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, inventory.ErrJobLocked
	}
	if err != nil {
		return nil, fmt.Errorf("obtain job lock %s: %w", job, err)
	}
	return func() {
		// se libera aunque el ctx del trabajo ya esté cancelado
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("job", job).Msg("no se pudo liberar el candado")
		}
	}, nil
}
