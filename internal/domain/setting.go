package domain

import "context"

// Well-known setting keys. Keys are free-form strings; these are the ones
// the service itself reads.
const (
	SettingLaundryName    = "laundry_name"
	SettingWhatsAppNumber = "whatsapp_number"
	SettingFonnteToken    = "fonnte_token"
)

// SettingRepository is a tenant-bound handle over one admin's settings.
type SettingRepository interface {
	// All returns every key/value pair of the admin.
	All(ctx context.Context) (map[string]string, error)

	// Get returns the value for key, or def if the key is absent.
	Get(ctx context.Context, key, def string) (string, error)

	// Upsert writes the given pairs, inserting or overwriting by key.
	Upsert(ctx context.Context, values map[string]string) error
}

// SettingStore hands out tenant-bound setting repositories.
type SettingStore interface {
	Tenant(adminID int64) SettingRepository
}
