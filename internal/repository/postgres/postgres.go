package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"rentalops-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can
// run standalone or inside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Orders() repository.OrderRepository         { return NewOrderRepository(s.q) }
func (s *Store) Deliveries() repository.DeliveryRepository  { return NewDeliveryRepository(s.q) }
func (s *Store) Returns() repository.ReturnRepository       { return NewReturnRepository(s.q) }
func (s *Store) Repacks() repository.RepackRepository       { return NewRepackRepository(s.q) }
func (s *Store) HiredItems() repository.HiredItemsRepository { return NewHiredItemsRepository(s.q) }
func (s *Store) Invoices() repository.InvoiceRepository     { return NewInvoiceRepository(s.q) }
func (s *Store) Stock() repository.StockRepository          { return NewStockRepository(s.q) }
func (s *Store) Settings() repository.SettingsRepository    { return NewSettingsRepository(s.q) }
func (s *Store) Catalog() repository.CatalogRepository      { return NewCatalogRepository(s.q) }
func (s *Store) Ledger() repository.LedgerRepository        { return NewLedgerRepository(s.q) }

// WithinTx runs fn against a transaction-bound Store and commits only if fn
// returns nil. Nested calls reuse the enclosing transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	scoped := &Store{db: s.db, q: tx}
	if err := fn(scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
