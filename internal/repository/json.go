package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mobil-koeln/roamly/internal/cache"
	"github.com/mobil-koeln/roamly/internal/models"
)

const (
	defaultTimeout = 10 * time.Second
	maxDocument    = 8 << 20
)

// Cache stores fetched documents. Stale entries are used when a fetch fails.
type Cache interface {
	Get(key string) ([]byte, bool)
	GetStale(key string) ([]byte, time.Duration, bool)
	Set(key string, value []byte) error
}

// JSONStore keeps destinations in memory, loaded from a JSON document at a
// file path or an http(s) URL. Edits are not written back to the source.
type JSONStore struct {
	source     string
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger

	mu           sync.RWMutex
	destinations []models.Destination
	loaded       bool
}

// Option configures a JSONStore
type Option func(*JSONStore)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(s *JSONStore) {
		s.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(s *JSONStore) {
		s.httpClient.Timeout = d
	}
}

// WithCache caches remote documents
func WithCache(c Cache) Option {
	return func(s *JSONStore) {
		s.cache = c
	}
}

// WithDefaultCache caches remote documents in the default cache directory
func WithDefaultCache() Option {
	return func(s *JSONStore) {
		fc, err := cache.NewFileCache(cache.DefaultCacheDir(), cache.DefaultTTL)
		if err == nil {
			s.cache = fc
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *JSONStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewJSONStore creates a store reading from source
func NewJSONStore(source string, opts ...Option) *JSONStore {
	s := &JSONStore{
		source:     source,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMemoryStore returns a store already loaded with ds
func NewMemoryStore(ds []models.Destination) *JSONStore {
	s := NewJSONStore("")
	s.destinations = slices.Clone(ds)
	s.loaded = true
	return s
}

// Source returns the configured path or URL
func (s *JSONStore) Source() string {
	return s.source
}

// Load reads and validates the document, replacing any previous contents
func (s *JSONStore) Load(ctx context.Context) ([]models.Destination, error) {
	if s.source == "" {
		s.mu.RLock()
		loaded := s.loaded
		s.mu.RUnlock()
		if loaded {
			return s.List(ctx)
		}
		return nil, fmt.Errorf("repository: no source configured")
	}

	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := models.ParseDestinations(data)
	if err != nil {
		return nil, fmt.Errorf("repository: %s: %w", s.source, err)
	}

	s.mu.Lock()
	s.destinations = ds
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("destinations loaded", "source", s.source, "count", len(ds))
	return slices.Clone(ds), nil
}

func (s *JSONStore) read(ctx context.Context) ([]byte, error) {
	if !isRemote(s.source) {
		data, err := os.ReadFile(s.source)
		if err != nil {
			return nil, fmt.Errorf("repository: %w", err)
		}
		return data, nil
	}

	if s.cache != nil {
		if data, ok := s.cache.Get(s.source); ok {
			s.logger.Debug("destinations served from cache", "url", s.source)
			return data, nil
		}
	}

	data, err := s.fetch(ctx)
	if err != nil {
		if s.cache != nil {
			if stale, age, ok := s.cache.GetStale(s.source); ok {
				s.logger.Warn("fetch failed, using stale copy", "url", s.source, "age", age, "error", err)
				return stale, nil
			}
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(s.source, data); err != nil {
			s.logger.Warn("cache write failed", "url", s.source, "error", err)
		}
	}
	return data, nil
}

func (s *JSONStore) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: s.source}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocument))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// List returns every destination
func (s *JSONStore) List(ctx context.Context) ([]models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return slices.Clone(s.destinations), nil
}

// GetByID returns the destination with id
func (s *JSONStore) GetByID(ctx context.Context, id int) (models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return models.Destination{}, ErrNotLoaded
	}
	if i := s.index(id); i >= 0 {
		return s.destinations[i], nil
	}
	return models.Destination{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// ByKind returns the destinations reached by kind
func (s *JSONStore) ByKind(ctx context.Context, kind models.VehicleKind) ([]models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	var out []models.Destination
	for _, d := range s.destinations {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out, nil
}

// Add appends d
func (s *JSONStore) Add(ctx context.Context, d models.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(d.ID) >= 0 {
		return fmt.Errorf("id %d: %w", d.ID, ErrDuplicateID)
	}
	s.destinations = append(s.destinations, d)
	s.loaded = true
	return nil
}

// Remove deletes the destination with id
func (s *JSONStore) Remove(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.destinations = slices.Delete(s.destinations, i, i+1)
	return true, nil
}

// Update applies p to the destination with id
func (s *JSONStore) Update(ctx context.Context, id int, p Patch) (models.Destination, error) {
	if err := p.Validate(); err != nil {
		return models.Destination{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return models.Destination{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	s.destinations[i] = p.Apply(s.destinations[i])
	return s.destinations[i], nil
}

func (s *JSONStore) index(id int) int {
	return slices.IndexFunc(s.destinations, func(d models.Destination) bool {
		return d.ID == id
	})
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
