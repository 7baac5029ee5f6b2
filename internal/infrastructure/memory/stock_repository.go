package memory

import (
	"sort"

	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación en memoria de StockRepository. Con tx opera sobre
// copias de trabajo; sin tx (modo lectura del coordinador) toma el mutex del
// store por llamada y devuelve clones.
type StockRepo struct {
	store *Store
	tx    *txState
}

// NewStockRepository construye el repositorio en modo lectura directa.
func NewStockRepository(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

func (r *StockRepo) Create(stock *entity.Stock) error {
	if r.tx != nil {
		if _, ok := r.tx.stocks[stock.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := r.store.stocks[stock.ID]; ok {
			return domain.ErrDuplicate
		}
		r.tx.stocks[stock.ID] = stock
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.stocks[stock.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.stocks[stock.ID] = cloneStock(stock)
	return nil
}

func (r *StockRepo) GetByID(id string) (*entity.Stock, error) {
	if r.tx != nil {
		return r.tx.workingStock(id), nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	st, ok := r.store.stocks[id]
	if !ok {
		return nil, nil
	}
	return cloneStock(st), nil
}

// GetForUpdate equivale a GetByID: el mutex del store ya serializa la tx completa.
func (r *StockRepo) GetForUpdate(id string) (*entity.Stock, error) {
	return r.GetByID(id)
}

func (r *StockRepo) FindByUnitAndLocation(organizationID, sellableUnitID, locationID string) (*entity.Stock, error) {
	match := func(s *entity.Stock) bool {
		return s.OrganizationID == organizationID &&
			s.SellableUnitID == sellableUnitID &&
			s.LocationID == locationID
	}
	if r.tx != nil {
		for _, s := range r.tx.stocks {
			if match(s) {
				return s, nil
			}
		}
		for id, s := range r.store.stocks {
			if match(s) {
				return r.tx.workingStock(id), nil
			}
		}
		return nil, nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.stocks {
		if match(s) {
			return cloneStock(s), nil
		}
	}
	return nil, nil
}

func (r *StockRepo) Update(stock *entity.Stock) error {
	if r.tx != nil {
		r.tx.stocks[stock.ID] = stock
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.stocks[stock.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.stocks[stock.ID] = cloneStock(stock)
	return nil
}

func (r *StockRepo) ListByLocation(organizationID, locationID string, limit, offset int) ([]*entity.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Stock
	for _, s := range r.store.stocks {
		if s.OrganizationID == organizationID && s.LocationID == locationID {
			list = append(list, cloneStock(s))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}
