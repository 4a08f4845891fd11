package supabase

import (
	"context"
	"sort"

	supa "github.com/supabase-community/supabase-go"

	"vfxprompt/internal/domain"
)

type RoleRepository struct {
	client *supa.Client
}

func NewRoleRepository(client *supa.Client) *RoleRepository {
	return &RoleRepository{client: client}
}

type roleRow struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

func (r *RoleRepository) ListRoles(_ context.Context, userID string) ([]domain.Role, error) {
	data, _, err := r.client.From(tableRoles).Select("user_id,role", "", false).Eq("user_id", userID).Execute()
	rows, err := decode[roleRow](data, err, "list roles")
	if err != nil {
		return nil, err
	}
	var out []domain.Role
	for _, row := range rows {
		out = append(out, row.Role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Grant upserts on (user_id, role).
func (r *RoleRepository) Grant(_ context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return domain.Invalid("role", "must be admin or pro")
	}
	row := roleRow{UserID: userID, Role: role}
	data, _, err := r.client.From(tableRoles).Insert(row, true, "user_id,role", "minimal", "").Execute()
	_, err = decode[roleRow](data, err, "grant role")
	return err
}

func (r *RoleRepository) Revoke(_ context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return domain.Invalid("role", "must be admin or pro")
	}
	data, _, err := r.client.From(tableRoles).Delete(returnRows, "").Eq("user_id", userID).Eq("role", string(role)).Execute()
	_, err = first(decode[roleRow](data, err, "revoke role"))
	return err
}
