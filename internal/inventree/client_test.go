package inventree

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielolaszy/orderboard/internal/config"
	"github.com/danielolaszy/orderboard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "inv-0123456789"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.InvenTreeConfig{URL: srv.URL + "/", Token: testToken, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client, srv
}

func TestNewClientValidation(t *testing.T) {
	testCases := []struct {
		name          string
		cfg           config.InvenTreeConfig
		errorContains string
	}{
		{name: "Missing token", cfg: config.InvenTreeConfig{URL: "https://stock.example.com"}, errorContains: "token"},
		{name: "Missing scheme", cfg: config.InvenTreeConfig{URL: "stock.example.com", Token: "t"}, errorContains: "scheme and host"},
		{name: "Unparseable", cfg: config.InvenTreeConfig{URL: "http://[::1", Token: "t"}, errorContains: "invalid inventree url"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClient(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/me/", r.URL.Path)
		assert.Equal(t, "Token "+testToken, r.Header.Get("Authorization"))
		w.Write([]byte(`{"pk": 1, "username": "planner"}`))
	})

	username, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "planner", username)
}

func TestListOrders(t *testing.T) {
	testCases := []struct {
		name      string
		orderType models.OrderType
		path      string
		body      string
		expected  int
	}{
		{name: "Bare array", orderType: models.OrderTypeBuild, path: "/api/build/", body: `[{"pk": 1}, {"pk": 2}]`, expected: 2},
		{name: "Results envelope", orderType: models.OrderTypePurchase, path: "/api/order/po/", body: `{"count": 1, "results": [{"pk": 3}]}`, expected: 1},
		{name: "Envelope without results", orderType: models.OrderTypeSales, path: "/api/order/so/", body: `{"count": 0}`, expected: 0},
		{name: "Non-object entries skipped", orderType: models.OrderTypeSales, path: "/api/order/so/", body: `[{"pk": 4}, 5, "x"]`, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tc.path, r.URL.Path)
				assert.Equal(t, "250", r.URL.Query().Get("limit"))
				assert.Equal(t, "Token "+testToken, r.Header.Get("Authorization"))
				w.Write([]byte(tc.body))
			})

			records, err := client.ListOrders(context.Background(), tc.orderType, 250)
			require.NoError(t, err)
			assert.Len(t, records, tc.expected)
		})
	}
}

func TestListOrdersKeepsNumbers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"pk": 12345678901234567, "status": 20}]`))
	})

	records, err := client.ListOrders(context.Background(), models.OrderTypeBuild, 250)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, json.Number("12345678901234567"), records[0]["pk"])
	assert.Equal(t, json.Number("20"), records[0]["status"])
}

func TestListOrdersErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/build/" {
			http.Error(w, `{"detail": "Invalid token."}`, http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`not json`))
	})

	_, err := client.ListOrders(context.Background(), models.OrderTypeBuild, 250)
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Invalid token")

	_, err = client.ListOrders(context.Background(), models.OrderTypeSales, 250)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode sales orders")

	_, err = client.ListOrders(context.Background(), models.OrderType("repair"), 250)
	assert.Error(t, err)
}

func TestUpdateOrderStatus(t *testing.T) {
	var received map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/order/so/17/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.Write([]byte(`{"pk": 17}`))
	})

	err := client.UpdateOrderStatus(context.Background(), models.OrderTypeSales, "17", models.StatusPayload{Label: "Packing", Code: 40})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": float64(40), "status_text": "Packing"}, received)
}

func TestUpdateOrderStatusErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	})

	err := client.UpdateOrderStatus(context.Background(), models.OrderTypeBuild, "3", models.StatusPayload{Label: "Pending", Code: 10})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	err = client.UpdateOrderStatus(context.Background(), models.OrderTypeBuild, "", models.StatusPayload{})
	assert.Error(t, err)
}

func TestDetailURL(t *testing.T) {
	client, err := NewClient(config.InvenTreeConfig{URL: "https://stock.example.com/", Token: testToken, Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, "https://stock.example.com/web/manufacturing/build-order/5", client.DetailURL(models.OrderTypeBuild, "5", true))
	assert.Equal(t, "/web/purchasing/purchase-order/6", client.DetailURL(models.OrderTypePurchase, "6", false))
	assert.Equal(t, "https://stock.example.com/web/sales/sales-order/7", client.DetailURL(models.OrderTypeSales, "7", true))
	assert.Empty(t, client.DetailURL(models.OrderTypeSales, "", true))
	assert.Empty(t, client.DetailURL(models.OrderType("repair"), "1", true))
}
