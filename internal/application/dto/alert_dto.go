package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CloseAlertRequest body para resolver o descartar una alerta.
type CloseAlertRequest struct {
	Notes string `json:"notes" validate:"required,max=1000"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id,omitempty"`
	LotID           string          `json:"lot_id,omitempty"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	Threshold       decimal.Decimal `json:"threshold"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	DaysToExpiry    *int            `json:"days_to_expiry,omitempty"`
	Priority        string          `json:"priority"`
	State           string          `json:"state"`
	GeneratedAt     time.Time       `json:"generated_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy      string          `json:"resolved_by,omitempty"`
	ResolutionNotes string          `json:"resolution_notes,omitempty"`
}

// AlertListResponse lista paginada de alertas abiertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AlertFromEntity convierte la alerta de dominio a su salida HTTP.
func AlertFromEntity(a *entity.StockAlert) AlertResponse {
	return AlertResponse{
		ID:              a.ID,
		Kind:            string(a.Kind),
		ProductID:       a.ProductID,
		WarehouseID:     a.WarehouseID,
		LotID:           a.LotID,
		CurrentQuantity: a.CurrentQuantity,
		Threshold:       a.Threshold,
		ExpirationDate:  a.ExpirationDate,
		DaysToExpiry:    a.DaysToExpiry,
		Priority:        string(a.Priority),
		State:           string(a.State),
		GeneratedAt:     a.GeneratedAt,
		ResolvedAt:      a.ResolvedAt,
		ResolvedBy:      a.ResolvedBy,
		ResolutionNotes: a.ResolutionNotes,
	}
}
