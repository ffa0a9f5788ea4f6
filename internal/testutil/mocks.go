package testutil

import (
	"context"
	"sync"
	"time"

	"cpd/internal/models"
	"cpd/internal/providers"
	"cpd/internal/storage/interfaces"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCompressor implements interfaces.CompressorInterface. Nil funcs pass
// data through unchanged.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	return val, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	return val, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockCache implements providers.CacheProviderInterface over a map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		m.Data = make(map[string][]byte)
	}
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts fetch
// outcomes.
type MockMetrics struct {
	mu       sync.Mutex
	Fetches  map[string]int
	InFlight int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObserveFetchDuration(_ string, _ time.Duration)   {}
func (m *MockMetrics) ObserveStoreDuration(_ string, _ time.Duration)   {}

func (m *MockMetrics) IncFetchTotal(platform, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fetches == nil {
		m.Fetches = make(map[string]int)
	}
	m.Fetches[platform+":"+outcome]++
}

func (m *MockMetrics) IncFetchInFlight() {
	m.mu.Lock()
	m.InFlight++
	m.mu.Unlock()
}

func (m *MockMetrics) DecFetchInFlight() {
	m.mu.Lock()
	m.InFlight--
	m.mu.Unlock()
}

func (m *MockMetrics) FetchCount(platform, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Fetches[platform+":"+outcome]
}

// MockStore implements interfaces.StoreInterface in memory.
type MockStore struct {
	mu     sync.Mutex
	Data   map[string][]byte
	SetErr error
	GetErr error
	Sets   int
}

func (m *MockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return v, nil
}

func (m *MockStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.Data == nil {
		m.Data = make(map[string][]byte)
	}
	m.Data[key] = value
	return nil
}

func (m *MockStore) Close() error { return nil }

// FetchCall is one request seen by MockFetcher.
type FetchCall struct {
	Platform models.Platform
	Username string
	At       time.Time
}

// MockFetcher implements the dashboard's stats fetcher. FetchFn decides the
// outcome; Supported lists the platforms it claims, nil meaning all.
type MockFetcher struct {
	mu        sync.Mutex
	Supported map[models.Platform]bool
	FetchFn   func(ctx context.Context, platform models.Platform, username string) (*models.PlatformStats, error)
	Calls     []FetchCall
	active    int
	MaxActive int
}

func (m *MockFetcher) Supports(platform models.Platform) bool {
	if m.Supported == nil {
		return true
	}
	return m.Supported[platform]
}

func (m *MockFetcher) Fetch(ctx context.Context, platform models.Platform, username string) (*models.PlatformStats, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, FetchCall{Platform: platform, Username: username, At: time.Now()})
	m.active++
	if m.active > m.MaxActive {
		m.MaxActive = m.active
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if m.FetchFn != nil {
		return m.FetchFn(ctx, platform, username)
	}
	return &models.PlatformStats{}, nil
}

func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockFetcher) Peak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MaxActive
}
