package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brevio/brevio-api/internal/domain"
	"github.com/brevio/brevio-api/internal/store"
)

// seedFirstAdmin creates the bootstrap admin account from configuration
// if no user with that email exists yet. The check and the insert run in
// one transaction so concurrent instances cannot both seed.
func (app *application) seedFirstAdmin(ctx context.Context) error {
	email := app.config.Auth.FirstAdminEmail

	return store.RunInTransaction(ctx, app.db, func(ctx context.Context, tx *sql.Tx) error {
		users := app.userStore.WithTx(tx)

		_, err := users.GetByEmail(ctx, email)
		if err == nil {
			app.logger.Debug("admin account already present", "email", email)
			return nil
		}
		if !errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("failed to check for admin account: %w", err)
		}

		admin, err := domain.NewUser(email, app.config.Auth.FirstAdminPassword, domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("invalid admin bootstrap configuration: %w", err)
		}

		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}

		app.logger.Info("seeded first admin account", "user_id", admin.ID)
		return nil
	})
}
