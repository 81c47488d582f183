package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestLedgerRepository_TotalDelivered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(rdl.qty\), 0\)`).
			WithArgs("RO-1", "ROL-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("7"))

		total, err := repo.TotalDelivered(ctx, "RO-1", "ROL-1")
		assert.NoError(t, err)
		assert.Equal(t, "7", total.String())
	})

	t.Run("NoRows", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(rdl.qty\), 0\)`).
			WithArgs("RO-2", "ROL-2").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

		total, err := repo.TotalDelivered(ctx, "RO-2", "ROL-2")
		assert.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_TotalReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()

	t.Run("OrderLineOnly", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(rrl.return_qty\)`).
			WithArgs("RO-1", "ROL-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("4"))

		total, err := repo.TotalReturned(ctx, "RO-1", "ROL-1", "", "")
		assert.NoError(t, err)
		assert.Equal(t, "4", total.String())
	})

	t.Run("FilteredByDeliveryLine", func(t *testing.T) {
		mock.ExpectQuery(`AND rrl.delivery_name = \$3 AND rrl.delivery_line = \$4`).
			WithArgs("RO-1", "ROL-1", "RD-1", "RDL-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("2"))

		total, err := repo.TotalReturned(ctx, "RO-1", "ROL-1", "RD-1", "RDL-1")
		assert.NoError(t, err)
		assert.Equal(t, "2", total.String())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_TotalDepositUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(rrl.maintenance_amount\) \+ SUM\(rrl.damaged_amount\), 0\)`).
		WithArgs("RO-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("250.00"))

	total, err := repo.TotalDepositUsed(ctx, "RO-1")
	assert.NoError(t, err)
	assert.Equal(t, "250", total.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_LastBilledDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()

	t.Run("Billed", func(t *testing.T) {
		billed := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT MAX\(posting_date\) FROM sales_invoices`).
			WithArgs("RO-1").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(billed))

		last, err := repo.LastBilledDate(ctx, "RO-1")
		assert.NoError(t, err)
		assert.NotNil(t, last)
		assert.True(t, last.Equal(billed))
	})

	t.Run("NeverBilled", func(t *testing.T) {
		mock.ExpectQuery(`SELECT MAX\(posting_date\) FROM sales_invoices`).
			WithArgs("RO-2").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		last, err := repo.LastBilledDate(ctx, "RO-2")
		assert.NoError(t, err)
		assert.Nil(t, last)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_LastReturnName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT name FROM rental_returns`).
			WithArgs("RO-1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("RR-9"))

		name, err := repo.LastReturnName(ctx, "RO-1")
		assert.NoError(t, err)
		assert.Equal(t, "RR-9", name)
	})

	t.Run("NoReturns", func(t *testing.T) {
		mock.ExpectQuery(`SELECT name FROM rental_returns`).
			WithArgs("RO-2").
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		name, err := repo.LastReturnName(ctx, "RO-2")
		assert.NoError(t, err)
		assert.Empty(t, name)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_PendingDeliveryNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT DISTINCT rd.name`).
		WithArgs("RO-1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("RD-1").AddRow("RD-2"))

	names, err := repo.PendingDeliveryNames(ctx, "RO-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"RD-1", "RD-2"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}
