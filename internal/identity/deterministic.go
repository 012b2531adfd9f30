// Package identity derives stable UUIDs for records addressed by natural keys.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID hashes key into a UUID. Blank keys map to uuid.Nil. Callers namespace
// their keys so different record kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || id == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return id
}

// ContentUUID identifies a content entry by its dotted key.
func ContentUUID(key string) uuid.UUID {
	return UUID("sitecms:content:" + strings.ToLower(strings.TrimSpace(key)))
}

// TranslationUUID identifies a translation item by namespace and key.
func TranslationUUID(namespace, key string) uuid.UUID {
	return UUID("sitecms:translation:" + strings.ToLower(strings.TrimSpace(namespace)) + "." + strings.TrimSpace(key))
}

// SettingsUUID identifies a per-user settings document.
func SettingsUUID(userID uuid.UUID, key string) uuid.UUID {
	return UUID("sitecms:settings:" + userID.String() + ":" + strings.TrimSpace(key))
}
