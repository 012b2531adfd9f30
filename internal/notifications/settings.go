package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SettingsVersion is the schema version written by Save.
const SettingsVersion = 2

var (
	// ErrSettingsNotFound indicates the user has not saved preferences yet.
	ErrSettingsNotFound = errors.New("notifications: settings not found")
	// ErrSettingsUnreadable is returned with the defaults when a stored
	// payload cannot be decoded.
	ErrSettingsUnreadable = errors.New("notifications: settings unreadable")
	ErrUserRequired       = errors.New("notifications: user id is required")
)

type EmailSettings struct {
	NewMessages    bool `json:"newMessages"`
	ContentUpdates bool `json:"contentUpdates"`
	SecurityAlerts bool `json:"securityAlerts"`
	WeeklyDigest   bool `json:"weeklyDigest"`
	Marketing      bool `json:"marketing"`
}

type InAppSettings struct {
	NewMessages    bool `json:"newMessages"`
	ContentUpdates bool `json:"contentUpdates"`
	SecurityAlerts bool `json:"securityAlerts"`
	SystemUpdates  bool `json:"systemUpdates"`
}

type PushSettings struct {
	NewMessages    bool `json:"newMessages"`
	SecurityAlerts bool `json:"securityAlerts"`
	Marketing      bool `json:"marketing"`
}

// Settings are a user's notification preferences.
type Settings struct {
	Version int           `json:"version"`
	Email   EmailSettings `json:"email"`
	InApp   InAppSettings `json:"inApp"`
	Push    PushSettings  `json:"push"`
}

// DefaultSettings returns the preferences of a user who never saved any.
func DefaultSettings() Settings {
	return Settings{
		Version: SettingsVersion,
		Email: EmailSettings{
			NewMessages:    true,
			ContentUpdates: true,
			SecurityAlerts: true,
		},
		InApp: InAppSettings{
			NewMessages:    true,
			ContentUpdates: true,
			SecurityAlerts: true,
			SystemUpdates:  true,
		},
		Push: PushSettings{
			NewMessages:    true,
			SecurityAlerts: true,
		},
	}
}

// version 1 documents carried two master switches only.
type legacySettings struct {
	EmailNotifications *bool `json:"emailNotifications"`
	PushNotifications  *bool `json:"pushNotifications"`
}

// DecodeSettings merges a stored payload over DefaultSettings and upgrades
// older versions. On failure it returns the defaults together with an error
// wrapping ErrSettingsUnreadable.
func DecodeSettings(raw []byte) (Settings, error) {
	settings := DefaultSettings()
	if len(bytes.TrimSpace(raw)) == 0 {
		return settings, nil
	}
	settings.Version = 0
	if err := json.Unmarshal(raw, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrSettingsUnreadable, err)
	}
	if settings.Version < SettingsVersion {
		var legacy legacySettings
		if err := json.Unmarshal(raw, &legacy); err == nil {
			upgradeLegacy(&settings, legacy)
		}
	}
	settings.Version = SettingsVersion
	return settings, nil
}

func upgradeLegacy(settings *Settings, legacy legacySettings) {
	if legacy.EmailNotifications != nil && !*legacy.EmailNotifications {
		settings.Email = EmailSettings{}
	}
	if legacy.PushNotifications != nil && !*legacy.PushNotifications {
		settings.Push = PushSettings{}
	}
}

// EncodeSettings stamps the current version and serialises settings.
func EncodeSettings(settings Settings) ([]byte, error) {
	settings.Version = SettingsVersion
	return json.Marshal(settings)
}

// SettingsRepository persists notification preferences per user. Writes are
// last-writer-wins.
type SettingsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (Settings, error)
	Save(ctx context.Context, userID uuid.UUID, settings Settings) (Settings, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	Subscribe(ctx context.Context) (<-chan SettingsChange, error)
}

// ChangeType enumerates settings change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// SettingsChange reports a settings mutation to subscribers.
type SettingsChange struct {
	Type     ChangeType
	UserID   uuid.UUID
	Settings Settings
}
