package service

import (
	"context"
	"strings"

	"github.com/bilasin/bilasin/internal/domain"
)

// publicSettingKeys are the keys exposed to customers. The gateway token
// never leaves the admin surface.
var publicSettingKeys = []string{
	domain.SettingLaundryName,
	domain.SettingWhatsAppNumber,
}

// SettingsService provides business logic for per-shop settings.
type SettingsService struct {
	settings domain.SettingStore
}

// NewSettingsService creates a new SettingsService instance.
func NewSettingsService(settings domain.SettingStore) *SettingsService {
	return &SettingsService{settings: settings}
}

// All returns every setting of the admin.
func (s *SettingsService) All(ctx context.Context, adminID int64) (map[string]string, error) {
	return s.settings.Tenant(adminID).All(ctx)
}

// Public returns the customer-visible subset of a shop's settings. Absent
// keys are omitted rather than returned empty.
func (s *SettingsService) Public(ctx context.Context, adminID int64) (map[string]string, error) {
	all, err := s.settings.Tenant(adminID).All(ctx)
	if err != nil {
		return nil, err
	}

	public := make(map[string]string, len(publicSettingKeys))
	for _, key := range publicSettingKeys {
		if value, ok := all[key]; ok {
			public[key] = value
		}
	}
	return public, nil
}

// Update upserts the given key/value pairs for the admin.
func (s *SettingsService) Update(ctx context.Context, adminID int64, values map[string]string) error {
	const op = "settings.update"

	if len(values) == 0 {
		return domain.Invalid(op, "no settings provided")
	}
	for key := range values {
		if strings.TrimSpace(key) == "" {
			return domain.Invalid(op, "setting keys must not be empty")
		}
	}

	return s.settings.Tenant(adminID).Upsert(ctx, values)
}
