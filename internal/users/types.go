package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
)

// User is an admin panel account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Name        string        `bun:"name,notnull" json:"name"`
	Email       string        `bun:"email,notnull,unique" json:"email"`
	Role        domain.Role   `bun:"role,notnull" json:"role"`
	Status      domain.Status `bun:"status,notnull" json:"status"`
	Avatar      string        `bun:"avatar" json:"avatar,omitempty"`
	LastLoginAt *time.Time    `bun:"last_login_at,nullzero" json:"lastLoginAt,omitempty"`
	CreatedBy   uuid.UUID     `bun:"created_by,type:uuid" json:"createdBy,omitempty"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (u *User) GetID() uuid.UUID   { return u.ID }
func (u *User) SetID(id uuid.UUID) { u.ID = id }

func (u *User) Clone() *User {
	cloned := *u
	if u.LastLoginAt != nil {
		at := *u.LastLoginAt
		cloned.LastLoginAt = &at
	}
	return &cloned
}

// CreateRequest describes a new account.
type CreateRequest struct {
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      domain.Role   `json:"role"`
	Status    domain.Status `json:"status"`
	Avatar    string        `json:"avatar"`
	CreatedBy uuid.UUID     `json:"-"`
}

// UpdatableFields are the attributes a patch may change.
var UpdatableFields = []string{"name", "email", "role", "status", "avatar"}

type patch struct {
	Name   *string        `json:"name"`
	Email  *string        `json:"email"`
	Role   *domain.Role   `json:"role"`
	Status *domain.Status `json:"status"`
	Avatar *string        `json:"avatar"`
}
