package notifications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// SettingsRecord is the persisted form of a settings document.
type SettingsRecord struct {
	bun.BaseModel `bun:"table:user_settings,alias:us"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull"`
	Key       string    `bun:"key,notnull"`
	Payload   string    `bun:"payload,type:text"`
	Version   int       `bun:"version"`
	UpdatedAt time.Time `bun:"updated_at"`
}

// BunSettingsRepository persists preferences in the user_settings table,
// one row per user and key.
type BunSettingsRepository struct {
	db          *bun.DB
	now         func() time.Time
	broadcaster *changeBroadcaster
}

func NewBunSettingsRepository(db *bun.DB) *BunSettingsRepository {
	return &BunSettingsRepository{
		db:          db,
		now:         time.Now,
		broadcaster: newChangeBroadcaster(),
	}
}

func settingsID(userID uuid.UUID) uuid.UUID {
	return identity.SettingsUUID(userID, shared.NotificationSettingsKey)
}

func (r *BunSettingsRepository) load(ctx context.Context, userID uuid.UUID) (*SettingsRecord, error) {
	if r.db == nil {
		return nil, errors.New("notifications: bun settings repository requires a database")
	}
	var record SettingsRecord
	if err := r.db.NewSelect().Model(&record).Where("id = ?", settingsID(userID)).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *BunSettingsRepository) Get(ctx context.Context, userID uuid.UUID) (Settings, error) {
	record, err := r.load(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	return DecodeSettings([]byte(record.Payload))
}

func (r *BunSettingsRepository) Save(ctx context.Context, userID uuid.UUID, settings Settings) (Settings, error) {
	if userID == uuid.Nil {
		return Settings{}, ErrUserRequired
	}
	_, err := r.load(ctx, userID)
	created := false
	if err != nil {
		if !errors.Is(err, ErrSettingsNotFound) {
			return Settings{}, err
		}
		created = true
	}

	encoded, err := EncodeSettings(settings)
	if err != nil {
		return Settings{}, err
	}
	record := SettingsRecord{
		ID:        settingsID(userID),
		UserID:    userID,
		Key:       shared.NotificationSettingsKey,
		Payload:   string(encoded),
		Version:   SettingsVersion,
		UpdatedAt: r.now().UTC(),
	}

	if created {
		_, err = r.db.NewInsert().Model(&record).Exec(ctx)
	} else {
		_, err = r.db.NewUpdate().
			Model(&record).
			Column("payload", "version", "updated_at").
			WherePK().
			Exec(ctx)
	}
	if err != nil {
		return Settings{}, err
	}

	stored, err := r.Get(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	changeType := ChangeUpdated
	if created {
		changeType = ChangeCreated
	}
	r.broadcaster.Broadcast(SettingsChange{Type: changeType, UserID: userID, Settings: stored})
	return stored, nil
}

func (r *BunSettingsRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	record, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return err
	}
	r.broadcaster.Broadcast(SettingsChange{Type: ChangeDeleted, UserID: userID, Settings: DefaultSettings()})
	return nil
}

func (r *BunSettingsRepository) Subscribe(ctx context.Context) (<-chan SettingsChange, error) {
	return r.broadcaster.Subscribe(ctx)
}
