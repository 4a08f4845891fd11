package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vfxprompt/internal/cache"
	"vfxprompt/internal/composer"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/export"
	"vfxprompt/internal/middleware"
	"vfxprompt/internal/providers/llm"
	"vfxprompt/internal/providers/prompt"
	"vfxprompt/internal/providers/vision"
	"vfxprompt/internal/settings"
	"vfxprompt/internal/storage"
	"vfxprompt/internal/subscription"
	"vfxprompt/internal/variations"
	"vfxprompt/internal/vocab"
)

type fakeGateway struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (f *fakeGateway) Complete(context.Context, llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Text: f.text, Provider: "fake"}, nil
}

func (f *fakeGateway) Name() string { return "fake" }

func (f *fakeGateway) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memEffects struct {
	mu    sync.Mutex
	items map[string]domain.Effect
	seq   int
}

func (m *memEffects) List(_ context.Context, activeOnly bool) ([]domain.Effect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Effect
	for _, e := range m.items {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memEffects) GetByID(_ context.Context, id string) (*domain.Effect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (m *memEffects) GetByName(_ context.Context, name string) (*domain.Effect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.items {
		if e.Name == name && e.IsActive {
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memEffects) Create(_ context.Context, e *domain.Effect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e.ID = "effect-" + strconv.Itoa(m.seq)
	m.items[e.ID] = *e
	return nil
}

func (m *memEffects) Update(_ context.Context, e *domain.Effect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[e.ID]; !ok {
		return domain.ErrNotFound
	}
	m.items[e.ID] = *e
	return nil
}

func (m *memEffects) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memPresets struct {
	mu    sync.Mutex
	items map[string]domain.Preset
	seq   int
}

func (m *memPresets) List(_ context.Context, activeOnly bool) ([]domain.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Preset
	for _, p := range m.items {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memPresets) GetByID(_ context.Context, id string) (*domain.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memPresets) Create(_ context.Context, p *domain.Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p.ID = "preset-" + strconv.Itoa(m.seq)
	m.items[p.ID] = *p
	return nil
}

func (m *memPresets) Update(_ context.Context, p *domain.Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memPresets) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memGenerations struct {
	mu    sync.Mutex
	items []domain.Generation
	seq   int
}

func (m *memGenerations) Create(_ context.Context, g *domain.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	g.ID = "gen-" + strconv.Itoa(m.seq)
	g.CreatedAt = time.Date(2026, 3, 1, 12, m.seq, 0, 0, time.UTC)
	m.items = append(m.items, *g)
	return nil
}

func (m *memGenerations) ListByUser(_ context.Context, userID string, limit int) ([]domain.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Generation
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memGenerations) GetByID(_ context.Context, userID, id string) (*domain.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.items {
		if g.ID == id && g.UserID == userID {
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memGenerations) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.items {
		if g.ID == id && g.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memRoles map[string][]domain.Role

func (m memRoles) ListRoles(_ context.Context, userID string) ([]domain.Role, error) {
	return m[userID], nil
}

func (m memRoles) Grant(_ context.Context, userID string, role domain.Role) error {
	m[userID] = append(m[userID], role)
	return nil
}

func (m memRoles) Revoke(_ context.Context, userID string, role domain.Role) error {
	held := m[userID]
	for i, r := range held {
		if r == role {
			m[userID] = append(held[:i], held[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

var fixedNow = time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)

type testEnv struct {
	app         *App
	gw          *fakeGateway
	effects     *memEffects
	presets     *memPresets
	generations *memGenerations
	roles       memRoles
}

func newTestEnv(t *testing.T, freeDaily int) *testEnv {
	t.Helper()
	gw := &fakeGateway{text: "A cinematic close-up of a glowing figure."}
	v := vocab.Default()
	env := &testEnv{
		gw:          gw,
		effects:     &memEffects{items: map[string]domain.Effect{}},
		presets:     &memPresets{items: map[string]domain.Preset{}},
		generations: &memGenerations{},
		roles:       memRoles{},
	}
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	log := zerolog.Nop()
	opts := prompt.Options{Gateway: gw, Vocab: v, Logger: log}
	exporter := export.New()
	exporter.Now = func() time.Time { return fixedNow }
	env.app = &App{
		Logger: log,
		Repos: domain.Repositories{
			Effects:     env.effects,
			Presets:     env.presets,
			Generations: env.generations,
			Roles:       env.roles,
		},
		Store:      store,
		Subs:       subscription.NewService(env.roles, cache.NewMemoryStore(), freeDaily, log).WithClock(func() time.Time { return fixedNow }),
		Reconciler: settings.New(v),
		Builder:    composer.New(v),
		Analyzer:   vision.NewAnalyzer(vision.AnalyzerOptions{Gateway: gw, Vocab: v, Cache: cache.NewMemoryStore(), Logger: log}),
		Deep:       vision.NewDeepAnalyzer(gw, log),
		Enhancer:   prompt.NewEnhancer(opts),
		Generator:  prompt.NewGenerator(opts, prompt.NewCatalogResolver(env.effects, log)),
		Variations: variations.New(gw, v, nil, 2, log),
		Exporter:   exporter,
		ImageHosts: []string{"localhost"},
	}
	return env
}

// asUser attaches an authenticated user the way AuthJWT does.
func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}
