package cmd

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/danielolaszy/orderboard/internal/board"
	"github.com/danielolaszy/orderboard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	mu        sync.Mutex
	orders    map[models.OrderType][]map[string]any
	updateErr error
	updates   []models.StatusPayload
}

func (s *stubStore) ListOrders(_ context.Context, orderType models.OrderType, _ int) ([]map[string]any, error) {
	return s.orders[orderType], nil
}

func (s *stubStore) UpdateOrderStatus(_ context.Context, _ models.OrderType, _ string, payload models.StatusPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, payload)
	return s.updateErr
}

func newTestEngine(t *testing.T, store *stubStore) *board.Engine {
	t.Helper()
	engine := board.New(store, nil, nil)
	require.NoError(t, engine.Configure(context.Background(), map[string]any{}))
	return engine
}

func sampleStore() *stubStore {
	return &stubStore{orders: map[models.OrderType][]map[string]any{
		models.OrderTypeBuild: {
			{"pk": 1, "reference": "BO-0001", "title": "Frame assembly", "status_text": "Production", "target_date": "2024-03-01", "responsible_detail": map[string]any{"name": "alice"}},
		},
		models.OrderTypePurchase: {
			{"pk": 12, "reference": "PO-0012", "description": "Fasteners", "status": 20},
			{"pk": 13, "reference": "PO-0013", "description": "Paint", "status": 50},
		},
		models.OrderTypeSales: {
			{"pk": 7, "reference": "SO-0007", "description": "Customer kit", "status_text": "Shipped"},
		},
	}}
}

func TestStatusMessage(t *testing.T) {
	testCases := []struct {
		name     string
		done     int
		total    int
		expected string
	}{
		{name: "Empty board", done: 0, total: 0, expected: "No orders on the board"},
		{name: "All done", done: 4, total: 4, expected: "All orders are done"},
		{name: "Half done", done: 2, total: 4, expected: "50.0% done (2/4 orders)"},
		{name: "None done", done: 0, total: 3, expected: "0.0% done (0/3 orders)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, statusMessage(tc.done, tc.total))
		})
	}
}

func TestRenderBoard(t *testing.T) {
	engine := newTestEngine(t, sampleStore())

	var out bytes.Buffer
	require.NoError(t, renderBoard(&out, engine.Snapshot(), ""))

	text := out.String()
	assert.Contains(t, text, "Work Order Kanban")
	assert.Contains(t, text, "4 cards")
	assert.Contains(t, text, "Build Orders, Purchase Orders, Sales Orders")
	assert.Contains(t, text, "In Progress (2)")
	assert.Contains(t, text, "Done (2)")
	assert.Contains(t, text, "On Hold (0)")
	assert.Contains(t, text, "build:1")
	assert.Contains(t, text, "2024-03-01")
	assert.Contains(t, text, "alice")
	assert.Contains(t, text, "PO-0013")
}

func TestRenderBoardSingleStage(t *testing.T) {
	engine := newTestEngine(t, sampleStore())

	var out bytes.Buffer
	require.NoError(t, renderBoard(&out, engine.Snapshot(), models.StageDone))

	text := out.String()
	assert.Contains(t, text, "Done (2)")
	assert.NotContains(t, text, "Backlog (")
	assert.NotContains(t, text, "BO-0001")
}

func TestRenderStatus(t *testing.T) {
	engine := newTestEngine(t, sampleStore())

	var out bytes.Buffer
	require.NoError(t, renderStatus(&out, engine.Snapshot()))

	text := out.String()
	assert.Contains(t, text, "Purchase Orders")
	assert.Contains(t, text, "50.0% done (2/4 orders)")
}

func TestRunMove(t *testing.T) {
	testCases := []struct {
		name        string
		card        string
		stage       string
		updateErr   error
		expectedOut string
		expectedErr string
		updates     int
	}{
		{
			name:        "Qualified key",
			card:        "purchase:12",
			stage:       "review",
			expectedOut: `PO-0012 moved from In Progress to Review (status "Receiving", code 40)`,
			updates:     1,
		},
		{
			name:        "Bare id",
			card:        "7",
			stage:       "on hold",
			expectedOut: `SO-0007 moved from Done to On Hold (status "On hold", code 30)`,
			updates:     1,
		},
		{
			name:        "Already in stage",
			card:        "build:1",
			stage:       "in_progress",
			expectedOut: "BO-0001 is already in In Progress",
		},
		{
			name:        "Unknown card",
			card:        "sales:99",
			stage:       "done",
			expectedErr: "card sales:99 not found on the board",
		},
		{
			name:        "Unknown stage",
			card:        "build:1",
			stage:       "archived",
			expectedErr: `unknown stage "archived"`,
		},
		{
			name:        "Store rejects update",
			card:        "purchase:12",
			stage:       "done",
			updateErr:   errors.New("permission denied"),
			expectedErr: "permission denied",
			updates:     1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := sampleStore()
			store.updateErr = tc.updateErr
			engine := newTestEngine(t, store)

			var out bytes.Buffer
			err := runMove(context.Background(), engine, &out, tc.card, tc.stage)

			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Contains(t, out.String(), tc.expectedOut)
			}
			assert.Len(t, store.updates, tc.updates)
		})
	}
}

func TestMoveCommandRequiresTwoArgs(t *testing.T) {
	assert.Error(t, moveCmd.Args(moveCmd, []string{"build:1"}))
	assert.NoError(t, moveCmd.Args(moveCmd, []string{"build:1", "done"}))
}

func TestBoardCommand(t *testing.T) {
	original := openBoard
	t.Cleanup(func() { openBoard = original })

	store := sampleStore()
	openBoard = func(ctx context.Context) (*board.Engine, error) {
		engine := board.New(store, nil, nil)
		return engine, engine.Configure(ctx, map[string]any{"ENABLE_SALES": false})
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"board", "--stage", "done"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	text := out.String()
	assert.Contains(t, text, "3 cards")
	assert.Contains(t, text, "Done (1)")
	assert.NotContains(t, text, "SO-0007")
}
