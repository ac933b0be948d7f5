package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestEvaluateStockLevel(t *testing.T) {
	min := decimal.NewFromInt(10)
	tests := []struct {
		available int64
		action    inventory.StockAction
		kind      entity.AlertKind
		priority  entity.AlertPriority
	}{
		{0, inventory.StockActionRaise, entity.AlertKindOutOfStock, entity.AlertPriorityCritical},
		{1, inventory.StockActionRaise, entity.AlertKindLowStock, entity.AlertPriorityCritical},
		{2, inventory.StockActionRaise, entity.AlertKindLowStock, entity.AlertPriorityCritical}, // 20%
		{3, inventory.StockActionRaise, entity.AlertKindLowStock, entity.AlertPriorityHigh},     // 30%
		{5, inventory.StockActionRaise, entity.AlertKindLowStock, entity.AlertPriorityHigh},     // 50%
		{6, inventory.StockActionRaise, entity.AlertKindLowStock, entity.AlertPriorityMedium},
		{10, inventory.StockActionRaise, entity.AlertKindLowStock, entity.AlertPriorityMedium},
		{11, inventory.StockActionResolve, "", ""},
	}
	for _, tc := range tests {
		got := inventory.EvaluateStockLevel(decimal.NewFromInt(tc.available), min)
		assert.Equal(t, tc.action, got.Action, "available=%d", tc.available)
		assert.Equal(t, tc.kind, got.Kind, "available=%d", tc.available)
		assert.Equal(t, tc.priority, got.Priority, "available=%d", tc.available)
	}
}

func TestEvaluateStockLevel_MinimoCero(t *testing.T) {
	got := inventory.EvaluateStockLevel(decimal.NewFromInt(1), decimal.Zero)
	assert.Equal(t, inventory.StockActionResolve, got.Action)

	got = inventory.EvaluateStockLevel(decimal.Zero, decimal.Zero)
	assert.Equal(t, entity.AlertKindOutOfStock, got.Kind)
}

func TestEvaluateExpiration(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	lotExpiring := func(days int, available int64) *entity.Lot {
		exp := today.AddDate(0, 0, days)
		return &entity.Lot{State: entity.LotStateActive, ExpirationDate: &exp, AvailableQuantity: decimal.NewFromInt(available)}
	}

	tests := []struct {
		name     string
		lot      *entity.Lot
		applies  bool
		kind     entity.AlertKind
		priority entity.AlertPriority
	}{
		{"vence hoy", lotExpiring(0, 3), true, entity.AlertKindNearExpiry, entity.AlertPriorityCritical},
		{"5 días", lotExpiring(5, 3), true, entity.AlertKindNearExpiry, entity.AlertPriorityCritical},
		{"7 días", lotExpiring(7, 3), true, entity.AlertKindNearExpiry, entity.AlertPriorityCritical},
		{"8 días", lotExpiring(8, 3), true, entity.AlertKindNearExpiry, entity.AlertPriorityHigh},
		{"15 días", lotExpiring(15, 3), true, entity.AlertKindNearExpiry, entity.AlertPriorityHigh},
		{"16 días", lotExpiring(16, 3), true, entity.AlertKindNearExpiry, entity.AlertPriorityMedium},
		{"30 días", lotExpiring(30, 3), true, entity.AlertKindNearExpiry, entity.AlertPriorityMedium},
		{"31 días", lotExpiring(31, 3), false, "", ""},
		{"vencido ayer", lotExpiring(-1, 3), true, entity.AlertKindExpired, entity.AlertPriorityCritical},
		{"sin saldo", lotExpiring(5, 0), false, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.EvaluateExpiration(tc.lot, today)
			assert.Equal(t, tc.applies, got.Applies)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.priority, got.Priority)
		})
	}

	blocked := lotExpiring(5, 3)
	blocked.State = entity.LotStateBlocked
	assert.False(t, inventory.EvaluateExpiration(blocked, today).Applies, "solo lotes ACTIVE")

	noDate := &entity.Lot{State: entity.LotStateActive, AvailableQuantity: decimal.NewFromInt(3)}
	assert.False(t, inventory.EvaluateExpiration(noDate, today).Applies)
}

func TestDaysUntil_DiasCalendario(t *testing.T) {
	today := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	exp := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, inventory.DaysUntil(exp, today))
	assert.Equal(t, -1, inventory.DaysUntil(today, exp))
}
