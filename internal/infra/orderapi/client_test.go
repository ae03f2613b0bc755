package orderapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/orderapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_CreateOrder(t *testing.T) {
	var (
		gotKey  string
		gotBody model.CreateOrderPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get(orderapi.IdempotencyKeyHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"o-1","buyerEmail":"a@example.com","products":[{"id":"A","quantity":2}],"totalAmount":20,"status":"PENDING"}`))
	}))
	defer srv.Close()

	c := orderapi.NewClient(srv.URL+"/", time.Second, zap.NewNop())
	payload := model.CreateOrderPayload{
		BuyerEmail:  "a@example.com",
		Products:    []model.OrderProduct{{ID: "A", Quantity: 2}},
		TotalAmount: 20,
		Status:      model.OrderStatusPending,
	}

	rec, err := c.CreateOrder(context.Background(), payload, "key-1")
	require.NoError(t, err)

	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, "o-1", rec.ID)
	assert.Equal(t, model.OrderStatusPending, rec.Status)
	assert.Equal(t, []model.OrderProduct{{ID: "A", Quantity: 2}}, rec.Products)
}

func TestClient_ListOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"o-2","buyerEmail":"b@example.com","products":[],"totalAmount":5.5,"status":"PAID"}]`))
	}))
	defer srv.Close()

	c := orderapi.NewClient(srv.URL, time.Second, zap.NewNop())
	recs, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "o-2", recs[0].ID)
	assert.Equal(t, 5.5, recs[0].TotalAmount)
}

func TestClient_ListOrders_NullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	recs, err := orderapi.NewClient(srv.URL, time.Second, zap.NewNop()).ListOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := orderapi.NewClient(srv.URL, time.Second, zap.NewNop())

	_, err := c.ListOrders(context.Background())
	var se *orderapi.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "Internal Server Error", se.StatusText())

	_, err = c.CreateOrder(context.Background(), model.CreateOrderPayload{}, "k")
	require.True(t, errors.As(err, &se))
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := orderapi.NewClient(srv.URL, time.Second, zap.NewNop()).ListOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := orderapi.NewClient(srv.URL, 20*time.Millisecond, zap.NewNop())
	_, err := c.ListOrders(context.Background())
	require.Error(t, err)

	var se *orderapi.StatusError
	assert.False(t, errors.As(err, &se))
}
