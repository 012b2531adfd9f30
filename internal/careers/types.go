package careers

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Job is an open position on the careers page.
type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID             uuid.UUID             `bun:",pk,type:uuid" json:"id"`
	Slug           string                `bun:"slug,notnull,unique" json:"slug"`
	Title          shared.BilingualText  `bun:"embed:title_" json:"title"`
	Description    shared.BilingualText  `bun:"embed:description_" json:"description"`
	Requirements   shared.BilingualText  `bun:"embed:requirements_" json:"requirements"`
	Department     string                `bun:"department" json:"department"`
	Location       string                `bun:"location" json:"location"`
	EmploymentType domain.EmploymentType `bun:"employment_type,notnull" json:"type"`
	Status         domain.Status         `bun:"status,notnull" json:"status"`
	Deadline       *time.Time            `bun:"deadline,nullzero" json:"deadline,omitempty"`
	CreatedBy      uuid.UUID             `bun:"created_by,type:uuid" json:"createdBy"`
	UpdatedBy      uuid.UUID             `bun:"updated_by,type:uuid" json:"updatedBy"`
	CreatedAt      time.Time             `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time             `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func (j *Job) GetID() uuid.UUID   { return j.ID }
func (j *Job) SetID(id uuid.UUID) { j.ID = id }

func (j *Job) Clone() *Job {
	cloned := *j
	if j.Deadline != nil {
		deadline := *j.Deadline
		cloned.Deadline = &deadline
	}
	return &cloned
}

// AcceptsApplications reports whether the job is open and its deadline, if
// any, has not passed at now.
func (j *Job) AcceptsApplications(now time.Time) bool {
	if j == nil || j.Status != domain.StatusOpen {
		return false
	}
	return j.Deadline == nil || !j.Deadline.Before(now)
}

// JobInput carries the editable fields of a job.
type JobInput struct {
	Slug           string               `json:"slug"`
	Title          shared.BilingualText `json:"title"`
	Description    shared.BilingualText `json:"description"`
	Requirements   shared.BilingualText `json:"requirements"`
	Department     string               `json:"department"`
	Location       string               `json:"location"`
	EmploymentType string               `json:"type"`
	Status         string               `json:"status"`
	Deadline       *time.Time           `json:"deadline"`
	ActorID        uuid.UUID            `json:"-"`
}
