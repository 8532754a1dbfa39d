// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal"
	"github.com/bilasin/bilasin/internal/auth"
	"github.com/bilasin/bilasin/internal/domain"
)

// defaultServices is the starter catalog written for a freshly seeded shop.
var defaultServices = []domain.Service{
	{Name: "Cuci Kiloan", Price: decimal.NewFromInt(7000), Unit: domain.UnitKg, IsActive: true},
	{Name: "Cuci Satuan (Kemeja)", Price: decimal.NewFromInt(15000), Unit: domain.UnitPcs, IsActive: true},
	{Name: "Cuci Satuan (Celana)", Price: decimal.NewFromInt(12000), Unit: domain.UnitPcs, IsActive: true},
	{Name: "Cuci Selimut", Price: decimal.NewFromInt(25000), Unit: domain.UnitPcs, IsActive: true},
}

// EnsureDefaultData creates the initial admin account with a starter catalog
// and settings. This function is idempotent - safe to call on every startup.
//
// If the admin already exists (by username), nothing is written: the catalog
// and settings belong to the operator from then on. If seeding is enabled
// without a password, it logs a warning and skips.
func EnsureDefaultData(
	ctx context.Context,
	cfg internal.SeedConfig,
	admins domain.AdminRepository,
	services domain.ServiceStore,
	settings domain.SettingStore,
	logger *slog.Logger,
) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Password == "" {
		logger.Warn("bootstrap: skipping default data - SEED_ADMIN_PASSWORD not set",
			"hint", "Set SEED_ADMIN_PASSWORD to create the default admin on first startup",
		)
		return nil
	}

	_, err := admins.GetByUsername(ctx, cfg.Username)
	if err == nil {
		logger.Info("bootstrap: admin already exists", "username", cfg.Username)
		return nil
	}
	if !domain.IsCode(err, domain.ENOTFOUND) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin, err := admins.Create(ctx, &domain.Admin{
		Name:         cfg.Name,
		Username:     cfg.Username,
		PasswordHash: hash,
	})
	if err != nil {
		// A concurrent boot may have won the insert; its seed pass covers us.
		if domain.IsCode(err, domain.ECONFLICT) {
			logger.Info("bootstrap: admin created concurrently", "username", cfg.Username)
			return nil
		}
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	catalog := services.Tenant(admin.ID)
	for _, svc := range defaultServices {
		svc := svc
		if err := catalog.UpsertByName(ctx, &svc); err != nil {
			return fmt.Errorf("failed to seed service %q: %w", svc.Name, err)
		}
	}

	if err := settings.Tenant(admin.ID).Upsert(ctx, map[string]string{
		domain.SettingLaundryName:    cfg.Name,
		domain.SettingWhatsAppNumber: "628123456789",
	}); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	logger.Info("bootstrap: default data ready",
		"admin_id", admin.ID,
		"username", admin.Username,
		"services", len(defaultServices),
	)
	return nil
}
