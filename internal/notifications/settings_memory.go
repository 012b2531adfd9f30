package notifications

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemorySettingsRepository keeps encoded preferences in memory.
type MemorySettingsRepository struct {
	mu          sync.RWMutex
	payloads    map[uuid.UUID][]byte
	broadcaster *changeBroadcaster
}

func NewMemorySettingsRepository() *MemorySettingsRepository {
	return &MemorySettingsRepository{
		payloads:    make(map[uuid.UUID][]byte),
		broadcaster: newChangeBroadcaster(),
	}
}

// Get decodes the stored preferences or returns ErrSettingsNotFound.
func (r *MemorySettingsRepository) Get(_ context.Context, userID uuid.UUID) (Settings, error) {
	r.mu.RLock()
	raw, ok := r.payloads[userID]
	r.mu.RUnlock()
	if !ok {
		return Settings{}, ErrSettingsNotFound
	}
	return DecodeSettings(raw)
}

func (r *MemorySettingsRepository) Save(_ context.Context, userID uuid.UUID, settings Settings) (Settings, error) {
	if userID == uuid.Nil {
		return Settings{}, ErrUserRequired
	}
	encoded, err := EncodeSettings(settings)
	if err != nil {
		return Settings{}, err
	}

	r.mu.Lock()
	previous, existed := r.payloads[userID]
	r.payloads[userID] = slices.Clone(encoded)
	r.mu.Unlock()

	stored, err := DecodeSettings(encoded)
	if err != nil {
		return Settings{}, err
	}
	if existed && bytes.Equal(previous, encoded) {
		return stored, nil
	}
	changeType := ChangeUpdated
	if !existed {
		changeType = ChangeCreated
	}
	r.broadcaster.Broadcast(SettingsChange{Type: changeType, UserID: userID, Settings: stored})
	return stored, nil
}

func (r *MemorySettingsRepository) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.payloads[userID]; !ok {
		r.mu.Unlock()
		return ErrSettingsNotFound
	}
	delete(r.payloads, userID)
	r.mu.Unlock()

	r.broadcaster.Broadcast(SettingsChange{Type: ChangeDeleted, UserID: userID, Settings: DefaultSettings()})
	return nil
}

// Subscribe delivers change events until ctx is cancelled.
func (r *MemorySettingsRepository) Subscribe(ctx context.Context) (<-chan SettingsChange, error) {
	return r.broadcaster.Subscribe(ctx)
}
