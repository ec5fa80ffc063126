// Package board holds the live card set of one board, derives its columns and
// runs refreshes and optimistic moves against the order store.
package board

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/danielolaszy/orderboard/internal/logging"
	"github.com/danielolaszy/orderboard/internal/normalize"
	"github.com/danielolaszy/orderboard/internal/settings"
	"github.com/danielolaszy/orderboard/internal/status"
	"github.com/danielolaszy/orderboard/pkg/models"
	"golang.org/x/sync/errgroup"
)

// PageSize is the number of orders requested per order type. Only the first
// page is read.
const PageSize = 250

// State is the lifecycle state of an Engine.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// OrderStore is the remote store the board reads from and writes to.
type OrderStore interface {
	ListOrders(ctx context.Context, orderType models.OrderType, limit int) ([]map[string]any, error)
	UpdateOrderStatus(ctx context.Context, orderType models.OrderType, id string, payload models.StatusPayload) error
}

// Notification is a user-facing message about a refresh or a move.
type Notification struct {
	Title   string
	Message string
	Failed  bool
}

// Notifier receives notifications. Delivery is fire and forget.
type Notifier interface {
	Notify(n Notification)
}

// Snapshot is a read-only view of the board.
type Snapshot struct {
	State        State
	Columns      []models.Column
	Loading      bool
	Err          error
	TotalCards   int
	LastUpdated  time.Time
	EnabledTypes []models.OrderType
	Settings     models.Settings
}

// Engine owns the card set and settings of one board. It is safe for
// concurrent use.
type Engine struct {
	store    OrderStore
	links    normalize.LinkBuilder
	notifier Notifier
	now      func() time.Time

	mu          sync.Mutex
	settings    models.Settings
	enabled     []models.OrderType
	configured  bool
	cards       []models.Card
	state       State
	err         error
	lastUpdated time.Time

	// started counts refreshes begun, applied is the number of the latest
	// refresh whose outcome was committed. A refresh that finishes after a
	// later-started one was committed is discarded.
	started  uint64
	applied  uint64
	inflight int
}

// New creates an engine. links and notifier may be nil.
func New(store OrderStore, links normalize.LinkBuilder, notifier Notifier) *Engine {
	s := settings.Decode(nil)
	return &Engine{
		store:    store,
		links:    links,
		notifier: notifier,
		now:      time.Now,
		settings: s,
		enabled:  settings.EnabledTypes(s),
	}
}

// Configure decodes the raw settings bag. The first call, and any call that
// changes the decoded settings, refreshes the board.
func (e *Engine) Configure(ctx context.Context, raw map[string]any) error {
	decoded := settings.Decode(raw)

	e.mu.Lock()
	changed := !e.configured || !reflect.DeepEqual(e.settings, decoded)
	e.settings = decoded
	e.enabled = settings.EnabledTypes(decoded)
	e.configured = true
	enabled := slices.Clone(e.enabled)
	e.mu.Unlock()

	if !changed {
		return nil
	}

	logging.Info("board configured", "enabled_types", enabled)
	return e.Refresh(ctx)
}

// Refresh fetches every enabled order type concurrently and replaces the
// card set with the merged, sorted result. If any fetch fails nothing is
// replaced, the error is recorded and returned.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	e.started++
	generation := e.started
	e.inflight++
	e.err = nil
	types := slices.Clone(e.enabled)
	normalizer := normalize.Normalizer{Colors: e.settings.UserColors, Links: e.links}
	e.mu.Unlock()

	logging.Debug("refreshing board", "order_types", types, "generation", generation)

	cards, fetchErr := e.fetch(ctx, types, normalizer)

	e.mu.Lock()
	e.inflight--
	if generation < e.applied {
		e.mu.Unlock()
		logging.Debug("discarding superseded refresh", "generation", generation)
		return fetchErr
	}
	e.applied = generation
	if fetchErr != nil {
		e.err = fetchErr
		e.state = StateFailed
	} else {
		e.cards = cards
		e.lastUpdated = e.now()
		e.state = StateReady
	}
	e.mu.Unlock()

	if fetchErr != nil {
		logging.Error("board refresh failed", "error", fetchErr)
		e.notify(Notification{Title: "Load failed", Message: fetchErr.Error(), Failed: true})
		return fetchErr
	}

	logging.Info("board refreshed", "cards", len(cards), "order_types", types)
	return nil
}

func (e *Engine) fetch(ctx context.Context, types []models.OrderType, normalizer normalize.Normalizer) ([]models.Card, error) {
	results := make([][]models.Card, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, orderType := range types {
		g.Go(func() error {
			records, err := e.store.ListOrders(gctx, orderType, PageSize)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", orderType.Label(), err)
			}

			cards := make([]models.Card, 0, len(records))
			for _, record := range records {
				cards = append(cards, normalizer.Card(orderType, record))
			}
			results[i] = cards
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := slices.Concat(results...)
	SortCards(merged)
	return merged, nil
}

// MoveCard moves a card to stage. The card is looked up by its qualified key
// ("purchase:12") or, failing that, by bare identifier; an unknown card is a
// no-op. The local card set changes before the store is called and is
// restored to its exact prior value if the store rejects the update.
func (e *Engine) MoveCard(ctx context.Context, id string, stage models.Stage) error {
	if !slices.Contains(models.Stages, stage) {
		return fmt.Errorf("unknown stage %q", stage)
	}

	e.mu.Lock()
	idx := indexOf(e.cards, id)
	if idx < 0 {
		e.mu.Unlock()
		logging.Debug("ignoring move of unknown card", "card", id)
		return nil
	}

	existing := e.cards[idx]
	payload := status.ToNative(existing.Type, stage)

	// e.cards is never mutated in place, so previous stays intact
	previous := e.cards
	next := slices.Clone(previous)
	next[idx].Status = payload.Label
	next[idx].Stage = stage
	e.cards = next
	e.mu.Unlock()

	title := status.DefinitionFor(stage).Title
	if err := e.store.UpdateOrderStatus(ctx, existing.Type, existing.ID, payload); err != nil {
		e.mu.Lock()
		e.cards = previous
		e.mu.Unlock()

		logging.Error("failed to move card",
			"card", existing.Key(),
			"reference", existing.Reference,
			"stage", stage,
			"error", err)
		e.notify(Notification{Title: "Move failed", Message: err.Error(), Failed: true})
		return fmt.Errorf("failed to move %s to %s: %w", existing.Reference, title, err)
	}

	logging.Info("moved card",
		"card", existing.Key(),
		"reference", existing.Reference,
		"from", existing.Stage,
		"to", stage)
	e.notify(Notification{
		Title:   "Status updated",
		Message: fmt.Sprintf("%s moved to %s", existing.Reference, title),
	})
	return nil
}

// Card returns the card with the given qualified key or bare identifier.
func (e *Engine) Card(id string) (models.Card, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := indexOf(e.cards, id)
	if idx < 0 {
		return models.Card{}, false
	}
	return e.cards[idx], true
}

// Cards returns a copy of the current card set in board order.
func (e *Engine) Cards() []models.Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.cards)
}

// Snapshot returns the current board.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.state
	if e.inflight > 0 {
		state = StateLoading
	}

	columns := Group(e.cards)
	total := 0
	for _, column := range columns {
		total += len(column.Cards)
	}

	return Snapshot{
		State:        state,
		Columns:      columns,
		Loading:      e.inflight > 0,
		Err:          e.err,
		TotalCards:   total,
		LastUpdated:  e.lastUpdated,
		EnabledTypes: slices.Clone(e.enabled),
		Settings:     e.settings,
	}
}

func (e *Engine) notify(n Notification) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(n)
}

func indexOf(cards []models.Card, id string) int {
	if idx := slices.IndexFunc(cards, func(c models.Card) bool { return c.Key() == id }); idx >= 0 {
		return idx
	}
	return slices.IndexFunc(cards, func(c models.Card) bool { return c.ID == id })
}
