package inventory

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// SystemActor actor registrado en las transiciones automáticas (auto-resolución de alertas).
const SystemActor = "system"

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: saldos, alertas y movimientos quedan como antes de la llamada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// ErrJobLocked indica que otra instancia está ejecutando el mismo trabajo batch.
var ErrJobLocked = errors.New("trabajo en ejecución por otra instancia")

// JobLocker serializa trabajos batch (barrido, reparación) entre procesos.
// Acquire devuelve ErrJobLocked si el candado está tomado.
type JobLocker interface {
	Acquire(ctx context.Context, job string) (release func(), err error)
}

// NoopJobLocker candado que siempre se obtiene (despliegues de una sola instancia).
type NoopJobLocker struct{}

// Acquire implementa JobLocker.
func (NoopJobLocker) Acquire(context.Context, string) (func(), error) { return func() {}, nil }

// Clock devuelve la hora actual; se inyecta para fijar el tiempo en tests.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

var tracer = otel.Tracer("inventory-ledger")

// endSpan registra el error (si hay) y cierra el span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
