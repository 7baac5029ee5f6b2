package memory

import (
	"sort"

	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SellableUnitRepository = (*SellableUnitRepo)(nil)

// SellableUnitRepo implementación en memoria del catálogo.
type SellableUnitRepo struct {
	store *Store
	tx    *txState
}

// NewSellableUnitRepository construye el repositorio en modo lectura directa.
func NewSellableUnitRepository(store *Store) *SellableUnitRepo {
	return &SellableUnitRepo{store: store}
}

func (r *SellableUnitRepo) Create(unit *entity.SellableUnit) error {
	u := *unit
	if r.tx != nil {
		if _, ok := r.store.units[unit.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.units[unit.ID] = &u
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.units[unit.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.units[unit.ID] = &u
	return nil
}

func (r *SellableUnitRepo) GetByID(id string) (*entity.SellableUnit, error) {
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	u, ok := r.store.units[id]
	if !ok {
		return nil, nil
	}
	c := *u
	if r.tx != nil {
		if cost, ok := r.tx.costs[id]; ok {
			c.Cost = cost
		}
	}
	return &c, nil
}

func (r *SellableUnitRepo) Update(unit *entity.SellableUnit) error {
	u := *unit
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	if _, ok := r.store.units[unit.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.units[unit.ID] = &u
	return nil
}

// UpdateCost en tx difiere la escritura al commit; fuera de tx escribe directo.
func (r *SellableUnitRepo) UpdateCost(id string, cost decimal.Decimal) error {
	if r.tx != nil {
		if _, ok := r.store.units[id]; !ok {
			return domain.ErrNotFound
		}
		r.tx.costs[id] = cost
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Cost = cost
	return nil
}

func (r *SellableUnitRepo) ListByOrganization(organizationID string, limit, offset int) ([]*entity.SellableUnit, error) {
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	var list []*entity.SellableUnit
	for _, u := range r.store.units {
		if u.OrganizationID == organizationID {
			c := *u
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *SellableUnitRepo) Delete(id string) error {
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	if _, ok := r.store.units[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.units, id)
	return nil
}
