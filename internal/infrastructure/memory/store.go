// Package memory ofrece implementaciones en memoria de los puertos de
// persistencia, con semántica transaccional suficiente para pruebas del
// coordinador: las escrituras dentro de Run solo se aplican al store si el
// callback termina sin error.
package memory

import (
	"sync"

	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Store guarda el estado compartido. Un mutex del store serializa las
// transacciones: equivale al candado por agregado de PostgreSQL, solo que de
// grano más grueso, lo cual preserva la exclusión que las pruebas necesitan.
type Store struct {
	mu        sync.Mutex
	stocks    map[string]*entity.Stock
	units     map[string]*entity.SellableUnit
	movements []*entity.Movement
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		stocks: make(map[string]*entity.Stock),
		units:  make(map[string]*entity.SellableUnit),
	}
}

// SeedStock inserta un agregado directamente (setup de pruebas).
func (s *Store) SeedStock(stock *entity.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[stock.ID] = cloneStock(stock)
}

// SeedUnit inserta una unidad vendible directamente (setup de pruebas).
func (s *Store) SeedUnit(unit *entity.SellableUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *unit
	s.units[unit.ID] = &u
}

// Movements devuelve una copia del libro en orden de emisión.
func (s *Store) Movements() []*entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Movement, len(s.movements))
	for i, m := range s.movements {
		c := *m
		out[i] = &c
	}
	return out
}

// StockByID devuelve una copia del agregado (inspección en pruebas).
func (s *Store) StockByID(id string) *entity.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stocks[id]
	if !ok {
		return nil
	}
	return cloneStock(st)
}

// txState acumula las escrituras de una transacción hasta el commit.
type txState struct {
	store     *Store
	stocks    map[string]*entity.Stock
	movements []*entity.Movement
	costs     map[string]decimal.Decimal
}

func (t *txState) commit() {
	for id, st := range t.stocks {
		t.store.stocks[id] = st
	}
	t.store.movements = append(t.store.movements, t.movements...)
	for id, cost := range t.costs {
		if u, ok := t.store.units[id]; ok {
			u.Cost = cost
		}
	}
}

// workingStock devuelve la copia de trabajo del agregado dentro de la tx,
// clonándola del store en el primer acceso. Nil si no existe.
func (t *txState) workingStock(id string) *entity.Stock {
	if st, ok := t.stocks[id]; ok {
		return st
	}
	st, ok := t.store.stocks[id]
	if !ok {
		return nil
	}
	clone := cloneStock(st)
	t.stocks[id] = clone
	return clone
}

func cloneStock(s *entity.Stock) *entity.Stock {
	c := *s
	c.Batches = make([]*entity.Batch, len(s.Batches))
	for i, b := range s.Batches {
		cb := *b
		if b.ExpiryDate != nil {
			d := *b.ExpiryDate
			cb.ExpiryDate = &d
		}
		c.Batches[i] = &cb
	}
	return &c
}
