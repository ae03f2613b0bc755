package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogGorm_Create(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewAuditLogGormRepository(gormDB)

	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := r.Create(context.Background(), model.AuditLog{
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   "o-1",
		BeforeJSON:   `{"status":"PENDING"}`,
		AfterJSON:    `{"status":"PAID"}`,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogGorm_ListByResource(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewAuditLogGormRepository(gormDB)
	now := time.Now()

	cols := []string{"id", "action", "resource_type", "resource_id", "before_json", "after_json", "created_at"}
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE resource_type = \$1 AND resource_id = \$2 ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "CREATE_ORDER", "order", "o-1", "", `{"status":"PENDING"}`, now).
			AddRow(2, "UPDATE_ORDER_STATUS", "order", "o-1", `{"status":"PENDING"}`, `{"status":"PAID"}`, now))

	rt := model.AuditResourceOrder
	logs, err := r.List(context.Background(), repo.AuditLogFilter{ResourceType: &rt, ResourceID: "o-1"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionCreateOrder, logs[0].Action)
	assert.Equal(t, `{"status":"PAID"}`, logs[1].AfterJSON)
	assert.NoError(t, mock.ExpectationsWereMet())
}
