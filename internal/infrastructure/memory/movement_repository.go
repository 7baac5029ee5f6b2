package memory

import (
	"sort"

	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria del libro de movimientos.
type MovementRepo struct {
	store *Store
	tx    *txState
}

// NewMovementRepository construye el repositorio en modo lectura directa.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Create(m *entity.Movement) error {
	c := *m
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, &c)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movements = append(r.store.movements, &c)
	return nil
}

func (r *MovementRepo) ListBySellableUnit(organizationID, sellableUnitID string, filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var list []*entity.Movement
	for _, m := range r.store.movements {
		if m.OrganizationID != organizationID || m.SellableUnitID != sellableUnitID {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !m.CreatedAt.Before(*filter.To) {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.ReferenceNumber != "" && m.ReferenceNumber != filter.ReferenceNumber {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	if filter.Offset >= len(list) {
		return nil, nil
	}
	list = list[filter.Offset:]
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}
