// Package world is the reducer that owns the canonical WorldState.
//
// Every operation clones the current snapshot, mutates the clone and swaps
// it in only when the whole operation succeeded, so a failure never leaves
// a half-applied document behind. Operations are serialized by one mutex;
// the HTTP handlers and the refresh ticker are the only writers.
package world

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifequest/internal/achievement"
	"lifequest/internal/catalog"
	"lifequest/internal/clock"
	"lifequest/internal/history"
	"lifequest/internal/model"
	"lifequest/internal/treasure"
)

// Recorder observes committed and rejected operations.
type Recorder interface {
	Operation(op string, code model.Code)
	Completion(category string, coins, exp int)
	Snapshot(s *model.WorldState)
}

type nopRecorder struct{}

func (nopRecorder) Operation(string, model.Code) {}
func (nopRecorder) Completion(string, int, int)  {}
func (nopRecorder) Snapshot(*model.WorldState)   {}

type nopPersister struct{}

func (nopPersister) SaveState(context.Context, *model.WorldState)      {}
func (nopPersister) SaveHistory(context.Context, []model.HistoryEntry) {}

type Engine struct {
	mu    sync.Mutex
	state *model.WorldState

	settings Settings
	catalog  *catalog.Catalog
	clock    clock.Clock
	rng      *rand.Rand
	newID    func() string
	persist  Persister
	rec      Recorder
	log      *slog.Logger

	achievements *achievement.Evaluator
	maps         treasure.Engine
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithRand pins the source used for event draws and gem drops.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithIDs replaces uuid generation for every id the engine hands out.
func WithIDs(fn func() string) Option { return func(e *Engine) { e.newID = fn } }

func WithPersister(p Persister) Option { return func(e *Engine) { e.persist = p } }

func WithRecorder(r Recorder) Option { return func(e *Engine) { e.rec = r } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// New builds an engine around state. A nil state starts from the default
// document; a nil catalog uses the built-in one.
func New(state *model.WorldState, cat *catalog.Catalog, settings Settings, opts ...Option) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	if state == nil {
		state = model.NewWorldState(settings.Limits)
	} else {
		state = state.Clone()
	}
	state.Normalize()

	e := &Engine{
		state:    state,
		settings: settings,
		catalog:  cat,
		clock:    clock.RealClock{},
		newID:    uuid.NewString,
		persist:  nopPersister{},
		rec:      nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.achievements = achievement.NewEvaluator(cat.Achievements, settings.Limits)
	e.maps = treasure.Engine{Limits: settings.Limits, NewID: e.newID}
	return e
}

// txn is the scratch space handed to an operation body.
type txn struct {
	s   *model.WorldState
	now time.Time
}

// cascade reports the side effects every committed mutation re-evaluates.
type cascade struct {
	Unlocked    []achievement.Unlock
	MapsCreated []model.TreasureMap
}

// update runs fn against a clone of the live state and commits it when fn
// succeeds. Achievements and map triggers are re-evaluated on the clone
// before the commit, after fn's own effects.
func (e *Engine) update(ctx context.Context, op string, fn func(tx *txn) error) (cascade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &txn{s: e.state.Clone(), now: e.clock.Now()}
	if err := fn(tx); err != nil {
		if err != errUnchanged {
			e.rec.Operation(op, codeOf(err))
		}
		return cascade{}, err
	}

	var c cascade
	c.Unlocked = e.achievements.Recalculate(tx.s, tx.now, e.newID)
	c.MapsCreated = e.maps.Trigger(tx.s, e.catalog.Triggers, tx.now)
	for _, u := range c.Unlocked {
		e.log.Info("achievement unlocked", "key", u.Key, "name", u.Name)
	}
	for _, m := range c.MapsCreated {
		e.log.Info("treasure map triggered", "map_id", m.ID, "trigger", m.TriggerKey, "tier", m.Tier)
	}

	e.state = tx.s
	e.persist.SaveState(ctx, e.state)
	e.persist.SaveHistory(ctx, e.state.History)
	e.rec.Operation(op, "")
	e.rec.Snapshot(e.state)
	return c, nil
}

// push appends a history entry inside an operation.
func (e *Engine) push(tx *txn, entry model.HistoryEntry) model.HistoryEntry {
	tx.s.History = history.Push(tx.s.History, entry, e.settings.HistoryMax, e.newID, tx.now)
	return tx.s.History[len(tx.s.History)-1]
}

func codeOf(err error) model.Code {
	if c := model.CodeOf(err); c != "" {
		return c
	}
	return "internal"
}

// State returns a deep copy of the current snapshot.
func (e *Engine) State() *model.WorldState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// History returns up to limit entries, newest first.
func (e *Engine) History(limit int) []model.HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return history.Newest(e.state.History, limit)
}

func (e *Engine) Settings() Settings {
	return e.settings
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}
