package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra/sqltest"
	"vfxprompt/internal/sqlinline"
)

func TestToken(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnQueryRow(sqlinline.QSelectIntegrationToken, sqltest.Row{Values: []any{" abc123 "}})
	store := NewStore(exec)

	key, err := store.Token(context.Background(), ProviderGemini)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if key != "abc123" {
		t.Fatalf("Token = %q, want %q", key, "abc123")
	}
	if got := exec.Last().Args; len(got) != 1 || got[0] != ProviderGemini {
		t.Fatalf("args = %#v", got)
	}
}

func TestToken_NoRows(t *testing.T) {
	store := NewStore(sqltest.NewExecutor())
	key, err := store.Token(context.Background(), ProviderGateway)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestToken_Error(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnQueryRow(sqlinline.QSelectIntegrationToken, sqltest.Row{Err: errors.New("boom")})
	if _, err := NewStore(exec).Token(context.Background(), ProviderGateway); err == nil {
		t.Fatal("expected error")
	}
}

func TestSet(t *testing.T) {
	exec := sqltest.NewExecutor()
	store := NewStore(exec)
	if err := store.Set(context.Background(), ProviderGateway, " secret "); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	call := exec.Last()
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if call.Args[0] != ProviderGateway || call.Args[1] != "secret" {
		t.Fatalf("args = %#v", call.Args)
	}
}

func TestSet_Validation(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		key      string
	}{
		{name: "unknown provider", provider: "qwen", key: "k"},
		{name: "empty key", provider: ProviderGemini, key: "   "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exec := sqltest.NewExecutor()
			err := NewStore(exec).Set(context.Background(), tc.provider, tc.key)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Set error = %v, want validation error", err)
			}
			if len(exec.Calls) != 0 {
				t.Fatalf("unexpected calls: %+v", exec.Calls)
			}
		})
	}
}

func TestList(t *testing.T) {
	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	exec := sqltest.NewExecutor()
	rows := sqltest.NewRows(
		[]any{ProviderGateway, updated},
		[]any{ProviderGemini, updated.Add(time.Hour)},
	)
	exec.OnQuery(sqlinline.QListIntegrationProviders, rows)

	entries, err := NewStore(exec).List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(entries) != 2 || entries[0].Provider != ProviderGateway || entries[1].Provider != ProviderGemini {
		t.Fatalf("entries = %+v", entries)
	}
	if !entries[1].UpdatedAt.Equal(updated.Add(time.Hour)) {
		t.Fatalf("UpdatedAt = %v", entries[1].UpdatedAt)
	}
	if !rows.Closed() {
		t.Fatal("rows not closed")
	}
}

func TestResolve(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnQueryRow(sqlinline.QSelectIntegrationToken, sqltest.Row{Values: []any{"stored"}})
	store := NewStore(exec)

	if got := store.Resolve(context.Background(), ProviderGemini, " env-key "); got != "env-key" {
		t.Fatalf("Resolve = %q, want env-key", got)
	}
	if len(exec.Calls) != 0 {
		t.Fatalf("env key should skip the store, calls = %d", len(exec.Calls))
	}
	if got := store.Resolve(context.Background(), ProviderGemini, ""); got != "stored" {
		t.Fatalf("Resolve = %q, want stored", got)
	}
}
