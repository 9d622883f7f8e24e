package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/narvanalabs/logsight/internal/models"
	"github.com/narvanalabs/logsight/internal/store"
)

// memStore implements store.Store in memory with snapshot-based
// transactions and savepoints.
type memStore struct {
	mu          sync.Mutex
	sources     map[string]int64
	logs        []*models.LogEntry
	nextSource  int64
	nextLog     int64
	failLevel   string // Create fails for entries with this level
	failResolve bool
	countErr    error
	txCount     int
}

func newMemStore() *memStore {
	return &memStore{sources: make(map[string]int64)}
}

type memSnapshot struct {
	sources    map[string]int64
	logs       []*models.LogEntry
	nextSource int64
	nextLog    int64
}

func (m *memStore) snapshot() memSnapshot {
	sources := make(map[string]int64, len(m.sources))
	for k, v := range m.sources {
		sources[k] = v
	}
	return memSnapshot{
		sources:    sources,
		logs:       append([]*models.LogEntry(nil), m.logs...),
		nextSource: m.nextSource,
		nextLog:    m.nextLog,
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.sources, m.logs, m.nextSource, m.nextLog = s.sources, s.logs, s.nextSource, s.nextLog
}

func (m *memStore) Sources() store.SourceStore             { return memSources{m} }
func (m *memStore) Logs() store.LogStore                   { return memLogs{m} }
func (m *memStore) EnsureSchema(ctx context.Context) error { return nil }
func (m *memStore) Ping(ctx context.Context) error         { return nil }
func (m *memStore) Close() error                           { return nil }

func (m *memStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	m.txCount++
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) WithSavepoint(ctx context.Context, fn func(store.Store) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memSources struct{ m *memStore }

func (s memSources) Resolve(ctx context.Context, ip, endpoint *string) (int64, error) {
	if ip == nil && endpoint == nil {
		return 0, store.ErrEmptySourceKey
	}
	if s.m.failResolve {
		return 0, store.ErrIntegrity
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	key := models.FormatSourceKey(ip, endpoint)
	if id, ok := s.m.sources[key]; ok {
		return id, nil
	}
	s.m.nextSource++
	s.m.sources[key] = s.m.nextSource
	return s.m.nextSource, nil
}

func (s memSources) List(ctx context.Context) ([]*models.LogSource, error) {
	return nil, errors.New("not implemented")
}

type memLogs struct{ m *memStore }

func (l memLogs) Create(ctx context.Context, entry *models.LogEntry) error {
	if l.m.failLevel != "" && entry.Level == l.m.failLevel {
		return fmt.Errorf("%w: value too long for type character varying(10)", store.ErrRejected)
	}
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	l.m.nextLog++
	entry.ID = l.m.nextLog
	l.m.logs = append(l.m.logs, entry)
	return nil
}

func (l memLogs) Count(ctx context.Context) (int, error) {
	if l.m.countErr != nil {
		return 0, l.m.countErr
	}
	return len(l.m.logs), nil
}

func (l memLogs) ListWithSources(ctx context.Context, filter models.LogFilter) ([]*models.LogView, error) {
	return nil, errors.New("not implemented")
}

func (l memLogs) Recent(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	return nil, errors.New("not implemented")
}
