package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/store"

	"github.com/shopspring/decimal"
)

// Engine owns the cart. Every mutation is written through to the store
// before it returns and then reported to the OnChange hook.
//
// Unknown product ids are silent no-ops. Storage failures never reach the
// caller: a failed read yields an empty cart and a failed write is logged
// while the in-memory cart stays authoritative.
type Engine struct {
	mu           sync.Mutex
	store        store.Adapter
	key          string
	writeTimeout time.Duration
	onChange     func(Snapshot)
	lines        []Line
}

// Option configures an Engine.
type Option func(*Engine)

// WithKey sets the storage key. Default "shoppingCart".
func WithKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.key = key
		}
	}
}

// OnChange registers a hook called with a fresh snapshot after every
// mutation and restore. It runs outside the engine lock.
func OnChange(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// WithWriteTimeout bounds each persist call.
func WithWriteTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.writeTimeout = d
		}
	}
}

// NewEngine creates an empty engine over s. Call Restore to load saved state.
func NewEngine(s store.Adapter, opts ...Option) *Engine {
	e := &Engine{
		store:        s,
		key:          config.DefaultStorageKey,
		writeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore replaces the in-memory cart with the stored one. Absent, unreadable
// or malformed storage gives an empty cart.
func (e *Engine) Restore(ctx context.Context) {
	e.mu.Lock()
	e.lines = e.load(ctx)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	logging.Cart("Restored %d lines (%d units)", len(snap.Lines), snap.Count)
	e.notify(snap)
}

func (e *Engine) load(ctx context.Context) []Line {
	log := logging.Get(logging.CategoryStore)

	payload, err := e.store.Get(ctx, e.key)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("No saved cart under %s", e.key)
		return nil
	}
	if err != nil {
		log.Warn("Cart read failed, starting empty: %v", err)
		return nil
	}

	lines, err := decodeLines(payload)
	if err != nil {
		log.Warn("Discarding corrupt cart under %s: %v", e.key, err)
		return nil
	}
	return lines
}

// AddOrIncrement adds the catalog product with id, or bumps its quantity if
// already present. Ids missing from cat are ignored.
func (e *Engine) AddOrIncrement(ctx context.Context, id catalog.ID, cat *catalog.Catalog) {
	product, ok := cat.Find(id)
	if !ok {
		logging.CartDebug("Add ignored, %s not in catalog", id)
		return
	}

	e.mu.Lock()
	if i := e.indexLocked(id); i >= 0 {
		e.lines[i].Quantity++
	} else {
		e.lines = append(e.lines, Line{Product: product, Quantity: 1})
	}
	snap := e.commitLocked(ctx)
	e.mu.Unlock()

	logging.Cart("Added %s", id)
	e.notify(snap)
}

// Increment bumps the quantity of an existing line.
func (e *Engine) Increment(ctx context.Context, id catalog.ID) {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		logging.CartDebug("Increment ignored, %s not in cart", id)
		return
	}
	e.lines[i].Quantity++
	snap := e.commitLocked(ctx)
	e.mu.Unlock()

	logging.Cart("Incremented %s", id)
	e.notify(snap)
}

// Decrement lowers the quantity of an existing line, removing it at zero.
func (e *Engine) Decrement(ctx context.Context, id catalog.ID) {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		logging.CartDebug("Decrement ignored, %s not in cart", id)
		return
	}
	if e.lines[i].Quantity > 1 {
		e.lines[i].Quantity--
	} else {
		e.removeAtLocked(i)
	}
	snap := e.commitLocked(ctx)
	e.mu.Unlock()

	logging.Cart("Decremented %s", id)
	e.notify(snap)
}

// Remove deletes the line for id. The cart is re-persisted even when the id
// is absent, so Remove also resyncs storage with memory.
func (e *Engine) Remove(ctx context.Context, id catalog.ID) {
	e.mu.Lock()
	if i := e.indexLocked(id); i >= 0 {
		e.removeAtLocked(i)
	}
	snap := e.commitLocked(ctx)
	e.mu.Unlock()

	logging.Cart("Removed %s", id)
	e.notify(snap)
}

// Dispatch applies an intent. cat is only consulted for ActionAdd.
func (e *Engine) Dispatch(ctx context.Context, in Intent, cat *catalog.Catalog) {
	switch in.Action {
	case ActionAdd:
		e.AddOrIncrement(ctx, in.ProductID, cat)
	case ActionIncrement:
		e.Increment(ctx, in.ProductID)
	case ActionDecrement:
		e.Decrement(ctx, in.ProductID)
	case ActionRemove:
		e.Remove(ctx, in.ProductID)
	default:
		logging.CartDebug("Unknown intent %v for %s", in.Action, in.ProductID)
	}
}

// Total is the sum of price x quantity over all lines.
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return totalOf(e.lines)
}

// FormatTotal renders Total with two decimals, e.g. "19.98" or "0.00".
func (e *Engine) FormatTotal() string {
	return e.Total().StringFixed(2)
}

// Lines returns a copy of the lines in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyLocked()
}

// Line returns the line for id.
func (e *Engine) Line(id catalog.ID) (Line, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexLocked(id); i >= 0 {
		return e.lines[i], true
	}
	return Line{}, false
}

// Len returns the number of distinct lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// Count returns the total number of units across lines.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return countOf(e.lines)
}

// Snapshot returns a copy of the current cart state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) indexLocked(id catalog.ID) int {
	for i := range e.lines {
		if e.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) removeAtLocked(i int) {
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
}

func (e *Engine) copyLocked() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Lines: e.copyLocked(),
		Total: totalOf(e.lines),
		Count: countOf(e.lines),
	}
}

// commitLocked persists the cart and returns the post-mutation snapshot.
func (e *Engine) commitLocked(ctx context.Context) Snapshot {
	e.persistLocked(ctx)
	return e.snapshotLocked()
}

func (e *Engine) persistLocked(ctx context.Context) {
	log := logging.Get(logging.CategoryStore)

	payload, err := encodeLines(e.lines)
	if err != nil {
		log.Error("Cart encode failed: %v", err)
		return
	}

	wctx, cancel := context.WithTimeout(ctx, e.writeTimeout)
	defer cancel()
	if err := e.store.Set(wctx, e.key, payload); err != nil {
		log.Error("Cart write failed, keeping in-memory state: %v", err)
	}
}

func (e *Engine) notify(s Snapshot) {
	if e.onChange != nil {
		e.onChange(s)
	}
}

func totalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func countOf(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
