package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// JobSweepExpirations nombre del trabajo de barrido de vencimientos (clave del candado).
const JobSweepExpirations = "sweep-expirations"

// AlertUseCase expone las alertas a colaboradores externos: consulta, resolución manual y barrido.
type AlertUseCase struct {
	txRunner  TxRunner
	generator *AlertGenerator
	locker    JobLocker
	log       zerolog.Logger
	clock     Clock
}

// NewAlertUseCase construye el caso de uso. locker nil equivale a NoopJobLocker.
func NewAlertUseCase(txRunner TxRunner, generator *AlertGenerator, locker JobLocker, log zerolog.Logger, clock Clock) *AlertUseCase {
	if locker == nil {
		locker = NoopJobLocker{}
	}
	return &AlertUseCase{txRunner: txRunner, generator: generator, locker: locker, log: log, clock: clock}
}

// ListOpenAlerts lista alertas OPEN filtradas por tipo, prioridad y bodega.
func (uc *AlertUseCase) ListOpenAlerts(ctx context.Context, filter repository.AlertFilter) ([]*entity.StockAlert, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.InvalidField("kind", domain.ErrInvalidInput)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, domain.InvalidField("priority", domain.ErrInvalidInput)
	}
	var list []*entity.StockAlert
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Alerts.ListOpen(ctx, filter)
		return err
	})
	return list, err
}

// GetAlert obtiene una alerta por ID.
func (uc *AlertUseCase) GetAlert(ctx context.Context, id string) (*entity.StockAlert, error) {
	var alert *entity.StockAlert
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		a, err := repos.Alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		alert = a
		return nil
	})
	return alert, err
}

// ResolveAlert cierra manualmente una alerta OPEN. Solo cambia estado; no afecta inventario.
func (uc *AlertUseCase) ResolveAlert(ctx context.Context, id, actor, notes string) (*entity.StockAlert, error) {
	return uc.close(ctx, id, actor, notes, entity.AlertStateResolved)
}

// DismissAlert descarta una alerta OPEN (el operador la considera no accionable).
func (uc *AlertUseCase) DismissAlert(ctx context.Context, id, actor, notes string) (*entity.StockAlert, error) {
	return uc.close(ctx, id, actor, notes, entity.AlertStateDismissed)
}

func (uc *AlertUseCase) close(ctx context.Context, id, actor, notes string, target entity.AlertState) (*entity.StockAlert, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, domain.MissingField("notes")
	}
	if actor == "" {
		return nil, domain.MissingField("actor")
	}
	var alert *entity.StockAlert
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		a, err := repos.Alerts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if a.State != entity.AlertStateOpen {
			return domain.ErrInvalidState
		}
		now := uc.clock.now()
		a.State = target
		a.ResolvedAt = &now
		a.ResolvedBy = actor
		a.ResolutionNotes = notes
		if err := repos.Alerts.Update(ctx, a); err != nil {
			return err
		}
		alert = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("alert_id", alert.ID).
		Str("state", string(target)).
		Str("actor", actor).
		Msg("alerta cerrada por operador")
	return alert, nil
}

// SweepExpirations evalúa todos los lotes ACTIVE con saldo y fecha de vencimiento.
// Cada lote se evalúa en su propia transacción para no retener bloqueos sobre el tráfico en vivo.
// Devuelve la cantidad de alertas creadas o actualizadas.
func (uc *AlertUseCase) SweepExpirations(ctx context.Context) (count int, err error) {
	ctx, span := tracer.Start(ctx, "SweepExpirations")
	defer func() {
		span.SetAttributes(attribute.Int("alerts.touched", count))
		endSpan(span, err)
	}()

	release, err := uc.locker.Acquire(ctx, JobSweepExpirations)
	if err != nil {
		return 0, err
	}
	defer release()

	var lots []*entity.Lot
	if err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		lots, err = repos.Lots.ListForExpirationSweep(ctx)
		return err
	}); err != nil {
		return 0, err
	}

	today := uc.clock.now()
	var errs []error
	for _, candidate := range lots {
		lotID := candidate.ID
		touched := false
		err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
			lot, err := repos.Lots.GetByID(ctx, lotID)
			if err != nil || lot == nil {
				return err
			}
			touched, err = uc.generator.EvaluateLot(ctx, repos, lot, today)
			return err
		})
		if err == nil && touched {
			count++
		}
		if err != nil {
			uc.log.Error().Err(err).Str("lot_id", lotID).Msg("barrido de vencimientos: lote con error")
			errs = append(errs, err)
		}
	}

	uc.log.Info().Int("lots", len(lots)).Int("alerts", count).Msg("barrido de vencimientos finalizado")
	return count, errors.Join(errs...)
}
