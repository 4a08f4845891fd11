package repo

import (
	"context"
	"fmt"

	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra"
	"vfxprompt/internal/sqlinline"
)

// RoleRepositoryPG implements domain.RoleRepository backed by PostgreSQL.
type RoleRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewRoleRepository(sql infra.SQLExecutor) *RoleRepositoryPG {
	return &RoleRepositoryPG{sql: sql}
}

func (r *RoleRepositoryPG) ListRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUserRoles, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var out []domain.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, domain.Role(role))
	}
	return out, rows.Err()
}

// Grant is idempotent.
func (r *RoleRepositoryPG) Grant(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return domain.Invalid("role", "must be admin or pro")
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QGrantUserRole, userID, string(role)); err != nil {
		return fmt.Errorf("grant %s: %w", role, err)
	}
	return nil
}

func (r *RoleRepositoryPG) Revoke(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return domain.Invalid("role", "must be admin or pro")
	}
	return deleted(r.sql.Exec(ctx, sqlinline.QRevokeUserRole, userID, string(role)))
}
