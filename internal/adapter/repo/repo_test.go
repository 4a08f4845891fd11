package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra/sqltest"
	"vfxprompt/internal/sqlinline"
)

var (
	created = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	updated = created.Add(time.Hour)
)

const effectID = "3f0e1c52-8c55-4f55-a0e5-0b6f35bcf1a1"

func effectRow(name, category string) []any {
	return []any{effectID, name, category, "Glowing particles", "✨", "#8B5CF6", false, true, "", 80, "3s", created, updated}
}

func TestEffectListScansRows(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnQuery(sqlinline.QListEffects, sqltest.NewRows(effectRow("Aura", "energy"), effectRow("Blink", "eyes")))

	effects, err := NewEffectRepository(exec).List(context.Background(), true)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(effects) != 2 || effects[0].Name != "Aura" || effects[1].Category != domain.EffectEyes {
		t.Fatalf("effects = %+v", effects)
	}
	if effects[0].DefaultIntensity != 80 || !effects[0].UpdatedAt.Equal(updated) {
		t.Fatalf("effect = %+v", effects[0])
	}
	if args := exec.Last().Args; len(args) != 1 || args[0] != true {
		t.Fatalf("args = %#v", args)
	}
}

func TestEffectGetNotFound(t *testing.T) {
	exec := sqltest.NewExecutor()
	repo := NewEffectRepository(exec)

	if _, err := repo.GetByID(context.Background(), effectID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID(bad id) error = %v, want ErrNotFound", err)
	}
	if len(exec.Calls) != 1 {
		t.Fatalf("bad ids should not reach the database, calls = %d", len(exec.Calls))
	}
	if _, err := repo.GetByName(context.Background(), "Aura"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByName error = %v, want ErrNotFound", err)
	}
}

func TestEffectCreateAssignsIDAndTimestamps(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnQueryRow(sqlinline.QInsertEffect, sqltest.Row{Values: []any{created, updated}})

	e := &domain.Effect{Name: "Aura", Category: domain.EffectEnergy, DefaultIntensity: 70, DefaultDuration: "5s"}
	if err := NewEffectRepository(exec).Create(context.Background(), e); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(e.ID) != 36 || !e.CreatedAt.Equal(created) {
		t.Fatalf("effect = %+v", e)
	}
	args := exec.Last().Args
	if len(args) != 11 || args[0] != e.ID || args[2] != "energy" || args[9] != 70 {
		t.Fatalf("args = %#v", args)
	}
}

func TestEffectUpdateAndDeleteMissing(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnExec(sqlinline.QDeleteEffect, 0)
	repo := NewEffectRepository(exec)

	err := repo.Update(context.Background(), &domain.Effect{ID: effectID, Name: "x", Category: domain.EffectVisual})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(context.Background(), effectID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestPresetRoundTripSettings(t *testing.T) {
	exec := sqltest.NewExecutor()
	settings := []byte(`{"shotType":"wide"}`)
	exec.OnQueryRow(sqlinline.QSelectPresetByID, sqltest.Row{Values: []any{effectID, "Chase", "action", "", "🎬", true, settings, created, updated}})
	exec.OnQueryRow(sqlinline.QInsertPreset, sqltest.Row{Values: []any{created, updated}})
	repo := NewPresetRepository(exec)

	p, err := repo.GetByID(context.Background(), effectID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	s, err := p.ProSettings()
	if err != nil || s.ShotType != "wide" || p.Category != domain.PresetAction {
		t.Fatalf("preset = %+v settings = %+v err = %v", p, s, err)
	}

	np := &domain.Preset{Name: "Quiet", Category: domain.PresetDrama}
	if err := repo.Create(context.Background(), np); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	args := exec.Last().Args
	if string(args[6].([]byte)) != "{}" {
		t.Fatalf("empty settings stored as %q, want {}", args[6])
	}
}

func TestGenerationCreateAndList(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnQueryRow(sqlinline.QInsertGeneration, sqltest.Row{Values: []any{created}})
	repo := NewGenerationRepository(exec)

	g := &domain.Generation{
		UserID:          "9d7f6a44-3c0f-4c0c-9f5d-7b8f7f0e2b11",
		EffectType:      "Aura",
		GeneratedPrompt: "A wide shot at eye-level captures a dancer.",
		Intensity:       80,
		Duration:        "3s",
		Style:           "cinematic",
		AIAnalysis:      &domain.ImageAnalysis{Subject: "a dancer"},
	}
	if err := repo.Create(context.Background(), g); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	args := exec.Last().Args
	var stored domain.ImageAnalysis
	if err := json.Unmarshal(args[5].([]byte), &stored); err != nil || stored.Subject != "a dancer" {
		t.Fatalf("stored analysis = %s (%v)", args[5], err)
	}

	exec.OnQuery(sqlinline.QListGenerationsByUser, sqltest.NewRows(
		[]any{g.ID, g.UserID, "Aura", "energy", "", args[5], g.GeneratedPrompt, 80, "3s", "cinematic", created},
		[]any{effectID, g.UserID, "Blink", "", "", nil, "older", 0, "", "", created.Add(-time.Hour)},
	))
	list, err := repo.ListByUser(context.Background(), g.UserID, 0)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(list) != 2 || list[0].AIAnalysis == nil || list[0].AIAnalysis.Subject != "a dancer" || list[1].AIAnalysis != nil {
		t.Fatalf("list = %+v", list)
	}
	if limit := exec.Last().Args[1]; limit != DefaultHistoryLimit {
		t.Fatalf("limit = %v, want %d", limit, DefaultHistoryLimit)
	}
}

func TestGenerationDeleteScopedToUser(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnExec(sqlinline.QDeleteGeneration, 1)
	repo := NewGenerationRepository(exec)
	if err := repo.Delete(context.Background(), "user-a", effectID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if args := exec.Last().Args; args[0] != "user-a" || args[1] != effectID {
		t.Fatalf("args = %#v", args)
	}
	exec.OnExec(sqlinline.QDeleteGeneration, 0)
	if err := repo.Delete(context.Background(), "user-b", effectID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestRoles(t *testing.T) {
	exec := sqltest.NewExecutor()
	exec.OnQuery(sqlinline.QListUserRoles, sqltest.NewRows([]any{"admin"}, []any{"pro"}))
	repo := NewRoleRepository(exec)

	roles, err := repo.ListRoles(context.Background(), "u1")
	if err != nil || len(roles) != 2 || roles[0] != domain.RoleAdmin {
		t.Fatalf("ListRoles = %v, %v", roles, err)
	}
	if err := repo.Grant(context.Background(), "u1", domain.RolePro); err != nil {
		t.Fatalf("Grant error: %v", err)
	}
	if err := repo.Grant(context.Background(), "u1", domain.Role("owner")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Grant(owner) error = %v, want validation", err)
	}
}
