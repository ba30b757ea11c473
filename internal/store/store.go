package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"lifequest/internal/history"
	"lifequest/internal/model"
)

const (
	KeyState       = "state"
	KeyLegacyState = "state.v1"
	KeyHistory     = "history"

	DefaultPersistCap = 200
)

// Store reads and writes the world document and its history log. Reads fall
// back to a fresh document on any failure; writes log and swallow errors so
// a broken disk never blocks a mutation.
type Store struct {
	backend    Backend
	log        *slog.Logger
	limits     model.StatLimits
	persistCap int
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithLimits(lim model.StatLimits) Option {
	return func(s *Store) { s.limits = lim }
}

func WithPersistCap(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.persistCap = n
		}
	}
}

func New(b Backend, opts ...Option) *Store {
	s := &Store{
		backend:    b,
		log:        slog.Default(),
		limits:     model.DefaultStatLimits,
		persistCap: DefaultPersistCap,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("component", "store")
	return s
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Load returns the document with its history attached.
func (s *Store) Load(ctx context.Context) *model.WorldState {
	st := s.LoadState(ctx)
	st.History = s.LoadHistory(ctx)
	return st
}

func (s *Store) LoadState(ctx context.Context) *model.WorldState {
	raw, key, err := s.readState(ctx)
	if err != nil {
		s.log.Warn("state read failed, starting fresh", "error", err)
		return model.NewWorldState(s.limits)
	}
	if raw == nil {
		return model.NewWorldState(s.limits)
	}
	st, from, err := s.decodeState(raw)
	if err != nil {
		s.log.Warn("state rejected, starting fresh", "key", key, "error", err)
		return model.NewWorldState(s.limits)
	}
	if from != model.SchemaVersion || key != KeyState {
		s.log.Info("state migrated", "key", key, "from", from, "to", model.SchemaVersion)
	}
	return st
}

func (s *Store) readState(ctx context.Context) ([]byte, string, error) {
	for _, key := range []string{KeyState, KeyLegacyState} {
		b, ok, err := s.backend.Get(ctx, key)
		if err != nil {
			return nil, key, err
		}
		if ok {
			return b, key, nil
		}
	}
	return nil, "", nil
}

func (s *Store) decodeState(raw []byte) (*model.WorldState, int, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		return nil, 0, fmt.Errorf("document is not an object")
	}
	from, err := Migrate(doc, s.limits)
	if err != nil {
		return nil, from, err
	}

	// Round-trip so the validator only sees json.Unmarshal value types.
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, from, err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, from, err
	}
	if err := ValidateDocument(generic); err != nil {
		return nil, from, fmt.Errorf("validate: %w", err)
	}

	var st model.WorldState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, from, fmt.Errorf("decode document: %w", err)
	}
	st.SchemaVersion = model.SchemaVersion
	st.Normalize()
	return &st, from, nil
}

// SaveState writes the document under KeyState. History is never part of it.
func (s *Store) SaveState(ctx context.Context, st *model.WorldState) {
	if st == nil {
		return
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.log.Error("state encode failed", "error", err)
		return
	}
	if err := s.backend.Put(ctx, KeyState, b); err != nil {
		s.log.Error("state write failed", "error", err)
	}
}

func (s *Store) LoadHistory(ctx context.Context) []model.HistoryEntry {
	b, ok, err := s.backend.Get(ctx, KeyHistory)
	if err != nil {
		s.log.Warn("history read failed", "error", err)
		return []model.HistoryEntry{}
	}
	if !ok {
		return []model.HistoryEntry{}
	}
	var out []model.HistoryEntry
	if err := json.Unmarshal(b, &out); err != nil {
		s.log.Warn("history rejected", "error", err)
		return []model.HistoryEntry{}
	}
	if out == nil {
		out = []model.HistoryEntry{}
	}
	return history.Trim(out, s.persistCap)
}

// SaveHistory keeps at most the persist cap of most recent entries.
func (s *Store) SaveHistory(ctx context.Context, entries []model.HistoryEntry) {
	entries = history.Trim(entries, s.persistCap)
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		s.log.Error("history encode failed", "error", err)
		return
	}
	if err := s.backend.Put(ctx, KeyHistory, b); err != nil {
		s.log.Error("history write failed", "error", err)
	}
}
