// Package memory implementa los puertos de persistencia en memoria.
// Cada Run se ejecuta en exclusión mutua y restaura el estado previo si fn falla,
// con la misma semántica todo-o-nada que la transacción PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type balanceKey struct {
	productID   string
	warehouseID string
}

type state struct {
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	lots       map[string]entity.Lot
	movements  map[string]entity.Movement
	balances   map[balanceKey]entity.StockBalance
	alerts     map[string]entity.StockAlert

	// orden de inserción y de confirmación para listados estables
	insertSeq  map[string]int64
	confirmSeq map[string]int64
	seq        int64
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		lots:       map[string]entity.Lot{},
		movements:  map[string]entity.Movement{},
		balances:   map[balanceKey]entity.StockBalance{},
		alerts:     map[string]entity.StockAlert{},
		insertSeq:  map[string]int64{},
		confirmSeq: map[string]int64{},
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.alerts {
		c.alerts[k] = v
	}
	for k, v := range s.insertSeq {
		c.insertSeq[k] = v
	}
	for k, v := range s.confirmSeq {
		c.confirmSeq[k] = v
	}
	c.seq = s.seq
	return c
}

// Store almacén en memoria; implementa inventory.TxRunner.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Run ejecuta fn con repositorios atados a una "transacción" exclusiva.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(s.repositories(s.data)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) repositories(st *state) repository.Repositories {
	return repository.Repositories{
		Products:   &productRepo{st: st},
		Warehouses: &warehouseRepo{st: st},
		Lots:       &lotRepo{st: st},
		Movements:  &movementRepo{st: st},
		Balances:   &balanceRepo{st: st},
		Alerts:     &alertRepo{st: st},
	}
}

// page aplica limit/offset; limit <= 0 no limita.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
