package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"vfxprompt/internal/adapter/repo"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/infra"
)

func main() {
	_ = godotenv.Load()

	var (
		userFlag   string
		roleFlag   string
		revokeFlag bool
	)
	flag.StringVar(&userFlag, "user", "", "user ID (UUID from the auth provider)")
	flag.StringVar(&roleFlag, "role", string(domain.RolePro), "role to grant or revoke (admin, pro)")
	flag.BoolVar(&revokeFlag, "revoke", false, "revoke the role instead of granting it")
	flag.Parse()

	userID := strings.TrimSpace(userFlag)
	if _, err := uuid.Parse(userID); err != nil {
		exitWithError(errors.New("-user must be a UUID"))
	}
	role := domain.Role(strings.TrimSpace(strings.ToLower(roleFlag)))
	if !role.Valid() {
		exitWithError(fmt.Errorf("unsupported role %q", roleFlag))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userrole").Logger()
	roles := repo.NewRoleRepository(infra.NewSQLRunner(pool, logger))

	if revokeFlag {
		err = roles.Revoke(ctx, userID, role)
	} else {
		err = roles.Grant(ctx, userID, role)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		exitWithError(fmt.Errorf("user %s does not hold role %s", userID, role))
	case err != nil:
		exitWithError(fmt.Errorf("failed to update roles: %w", err))
	}

	held, err := roles.ListRoles(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to list roles: %w", err))
	}
	names := make([]string, 0, len(held))
	for _, r := range held {
		names = append(names, string(r))
	}
	if len(names) == 0 {
		names = append(names, "none (freemium)")
	}
	fmt.Printf("User %s roles: %s\n", userID, strings.Join(names, ", "))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
