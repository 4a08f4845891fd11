package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	supa "github.com/supabase-community/supabase-go"

	"vfxprompt/internal/domain"
)

type restCall struct {
	Method string
	Table  string
	Query  url.Values
	Body   []byte
}

// fakeRest answers PostgREST calls with canned JSON keyed by "METHOD table".
type fakeRest struct {
	mu      sync.Mutex
	replies map[string]string
	calls   []restCall
}

func (f *fakeRest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	table := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	f.mu.Lock()
	f.calls = append(f.calls, restCall{Method: r.Method, Table: table, Query: r.URL.Query(), Body: body})
	reply, ok := f.replies[r.Method+" "+table]
	f.mu.Unlock()
	if !ok {
		reply = "[]"
	}
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodPost {
		w.WriteHeader(http.StatusCreated)
	}
	_, _ = io.WriteString(w, reply)
}

func (f *fakeRest) last() restCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newClient(t *testing.T, replies map[string]string) (*supa.Client, *fakeRest) {
	t.Helper()
	fake := &fakeRest{replies: replies}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client, err := supa.NewClient(srv.URL, "service-key", &supa.ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, fake
}

const effectsJSON = `[
 {"id":"3f0e1c52-8c55-4f55-a0e5-0b6f35bcf1a1","name":"Zap","category":"energy","description":null,"icon":"⚡","color":"#fff","is_premium":false,"is_active":true,"prompt_template":null,"default_intensity":80,"default_duration":"3s","created_at":"2026-02-01T10:00:00+00:00","updated_at":"2026-02-01T10:00:00+00:00"},
 {"id":"5a0e1c52-8c55-4f55-a0e5-0b6f35bcf1a1","name":"Aura","category":"energy","description":"glow","icon":"✨","color":"#fff","is_premium":true,"is_active":true,"prompt_template":"aura template","default_intensity":70,"default_duration":"5s","created_at":"2026-02-01T10:00:00+00:00","updated_at":"2026-02-01T10:00:00+00:00"},
 {"id":"6a0e1c52-8c55-4f55-a0e5-0b6f35bcf1a1","name":"Blink","category":"eyes","description":"","icon":"👁","color":"#fff","is_premium":false,"is_active":true,"prompt_template":"","default_intensity":80,"default_duration":"3s","created_at":"2026-02-01T10:00:00+00:00","updated_at":"2026-02-01T10:00:00+00:00"}
]`

func TestEffectListSortsAndFilters(t *testing.T) {
	client, fake := newClient(t, map[string]string{"GET effects": effectsJSON})
	effects, err := NewEffectRepository(client).List(context.Background(), true)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	var names []string
	for _, e := range effects {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "Aura,Zap,Blink" {
		t.Fatalf("order = %v, want Aura,Zap,Blink", names)
	}
	if got := fake.last().Query.Get("is_active"); got != "eq.true" {
		t.Fatalf("is_active filter = %q", got)
	}
	if effects[0].PromptTemplate != "aura template" || effects[1].Description != "" {
		t.Fatalf("effects = %+v", effects)
	}
}

func TestEffectGetAndDeleteNotFound(t *testing.T) {
	client, fake := newClient(t, nil)
	repo := NewEffectRepository(client)
	if _, err := repo.GetByID(context.Background(), "3f0e1c52-8c55-4f55-a0e5-0b6f35bcf1a1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(context.Background(), "3f0e1c52-8c55-4f55-a0e5-0b6f35bcf1a1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete error = %v, want ErrNotFound", err)
	}
	if fake.last().Method != http.MethodDelete {
		t.Fatalf("last method = %s", fake.last().Method)
	}
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID(bad id) error = %v", err)
	}
}

func TestEffectCreateSendsRow(t *testing.T) {
	client, fake := newClient(t, map[string]string{"POST effects": `[{"id":"x","created_at":"2026-03-01T00:00:00Z","updated_at":"2026-03-01T00:00:00Z"}]`})
	e := &domain.Effect{Name: "Aura", Category: domain.EffectEnergy, Icon: "✨"}
	if err := NewEffectRepository(client).Create(context.Background(), e); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("effect = %+v", e)
	}
	var sent map[string]any
	if err := json.Unmarshal(fake.last().Body, &sent); err != nil {
		t.Fatalf("decode body %s: %v", fake.last().Body, err)
	}
	if sent["id"] != e.ID || sent["category"] != "energy" || sent["description"] != nil {
		t.Fatalf("sent = %v", sent)
	}
}

func TestGenerationsNewestFirstWithLimit(t *testing.T) {
	client, fake := newClient(t, map[string]string{"GET generations": `[
 {"id":"a","user_id":"u1","effect_type":"Aura","generated_prompt":"old","created_at":"2026-01-01T00:00:00Z"},
 {"id":"b","user_id":"u1","effect_type":"Aura","generated_prompt":"new","ai_analysis":{"subject":"a dancer"},"created_at":"2026-01-03T00:00:00Z"},
 {"id":"c","user_id":"u1","effect_type":"Aura","generated_prompt":"mid","created_at":"2026-01-02T00:00:00Z"}
]`})
	gens, err := NewGenerationRepository(client).ListByUser(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(gens) != 2 || gens[0].GeneratedPrompt != "new" || gens[1].GeneratedPrompt != "mid" {
		t.Fatalf("gens = %+v", gens)
	}
	if gens[0].AIAnalysis == nil || gens[0].AIAnalysis.Subject != "a dancer" {
		t.Fatalf("analysis = %+v", gens[0].AIAnalysis)
	}
	if got := fake.last().Query.Get("user_id"); got != "eq.u1" {
		t.Fatalf("user filter = %q", got)
	}
}

func TestPresetNullSettings(t *testing.T) {
	client, _ := newClient(t, map[string]string{"GET director_presets": `[{"id":"p","name":"Chase","category":"action","settings":null,"is_active":true}]`})
	presets, err := NewPresetRepository(client).List(context.Background(), false)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(presets) != 1 || string(presets[0].Settings) != "{}" {
		t.Fatalf("presets = %+v", presets)
	}
}

func TestRolesListAndValidate(t *testing.T) {
	client, _ := newClient(t, map[string]string{"GET user_roles": `[{"user_id":"u1","role":"pro"},{"user_id":"u1","role":"admin"}]`})
	repo := NewRoleRepository(client)
	roles, err := repo.ListRoles(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListRoles error: %v", err)
	}
	if len(roles) != 2 || roles[0] != domain.RoleAdmin || roles[1] != domain.RolePro {
		t.Fatalf("roles = %v", roles)
	}
	if err := repo.Grant(context.Background(), "u1", domain.Role("owner")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Grant error = %v, want validation", err)
	}
}
