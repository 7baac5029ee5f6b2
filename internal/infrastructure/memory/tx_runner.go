package memory

import (
	"context"

	appstock "github.com/jhoicas/retail-backoffice/internal/application/stock"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ appstock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el callback bajo el mutex del store. Las escrituras quedan
// en el txState y solo se aplican si fn devuelve nil; un error las descarta,
// igual que el Rollback de la variante PostgreSQL.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a la transacción en memoria.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movementRepo repository.MovementRepository,
	unitRepo repository.SellableUnitRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := &txState{
		store:  r.store,
		stocks: make(map[string]*entity.Stock),
		costs:  make(map[string]decimal.Decimal),
	}
	if err := fn(&StockRepo{store: r.store, tx: tx},
		&MovementRepo{store: r.store, tx: tx},
		&SellableUnitRepo{store: r.store, tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}
