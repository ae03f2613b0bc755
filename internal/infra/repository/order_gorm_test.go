package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

var orderColumns = []string{"id", "buyer_email", "total_amount", "status", "idempotency_key", "created_at", "updated_at"}

func TestOrderGorm_FindByID_NotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewOrderGormRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := r.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, repo.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGorm_FindByIdempotencyKey(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewOrderGormRepository(gormDB)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE idempotency_key = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o-1", "a@example.com", 20.5, "PENDING", "key-1", now, now))

	o, found, err := r.FindByIdempotencyKey(context.Background(), "key-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "o-1", o.ID)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, 20.5, o.TotalAmount)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE idempotency_key = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, found, err = r.FindByIdempotencyKey(context.Background(), "key-2")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGorm_UpdateStatus_NoRows(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewOrderGormRepository(gormDB)

	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.UpdateStatus(context.Background(), "missing", model.OrderStatusPaid)
	assert.True(t, errors.Is(err, repo.ErrNotFound))

	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = r.UpdateStatus(context.Background(), "o-1", model.OrderStatusPaid)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGorm_List(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewOrderGormRepository(gormDB)
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "orders" ORDER BY created_at desc`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o-2", "b@example.com", 5.0, "PAID", "k2", now, now).
			AddRow("o-1", "a@example.com", 3.0, "PENDING", "k1", now, now))

	orders, total, err := r.List(context.Background(), repo.OrderListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "o-2", orders[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemGorm_ListByOrderIDs_Groups(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewOrderItemGormRepository(gormDB)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "created_at"}).
			AddRow(1, "o-1", "A", 2, now).
			AddRow(2, "o-2", "B", 1, now).
			AddRow(3, "o-1", "C", 5, now))

	got, err := r.ListByOrderIDs(context.Background(), []string{"o-1", "o-2"})
	require.NoError(t, err)
	require.Len(t, got["o-1"], 2)
	assert.Equal(t, "A", got["o-1"][0].ProductID)
	assert.Equal(t, "C", got["o-1"][1].ProductID)
	require.Len(t, got["o-2"], 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemGorm_ListByOrderIDs_Empty(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewOrderItemGormRepository(gormDB)

	got, err := r.ListByOrderIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerGorm_RollsBackOnError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	tm := NewTxManagerGorm(gormDB)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.WithinTx(context.Background(), func(r repo.TxRepos) error {
		assert.NotNil(t, r.Orders())
		assert.NotNil(t, r.OrderItems())
		assert.NotNil(t, r.AuditLogs())
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
