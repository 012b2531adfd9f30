// Package careers manages job openings.
package careers

import (
	"context"
	"errors"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

var (
	ErrSlugRequired  = errors.New("careers: slug is required")
	ErrSlugInvalid   = errors.New("careers: slug contains invalid characters")
	ErrSlugExists    = errors.New("careers: slug already exists")
	ErrStatusInvalid = errors.New("careers: status invalid")
)

// Service exposes job operations.
type Service interface {
	Create(ctx context.Context, input JobInput) (*Job, error)
	Update(ctx context.Context, id uuid.UUID, input JobInput) (*Job, error)
	Get(ctx context.Context, id uuid.UUID) (*Job, error)
	GetBySlug(ctx context.Context, slug string) (*Job, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*Job], error)
	// ListOpen returns open jobs whose deadline has not passed.
	ListOpen(ctx context.Context, q listing.Query) (listing.Result[*Job], error)
	Delete(ctx context.Context, id, actor uuid.UUID) error
	BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	Statuses() []string
}

// ServiceOption configures the service.
type ServiceOption func(*service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

type service struct {
	repo     Repository
	now      func() time.Time
	logger   interfaces.Logger
	activity *activity.Emitter
}

// NewService constructs the careers service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		now:      time.Now,
		logger:   logging.NoOp(),
		activity: activity.NewEmitter(nil, activity.Config{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, input JobInput) (*Job, error) {
	job := &Job{CreatedBy: input.ActorID}
	if err := s.apply(ctx, job, input); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return nil, err
	}
	s.logger.Info("careers.created", "job_id", created.ID, "slug", created.Slug)
	s.emitActivity(ctx, input.ActorID, domain.ActionCreate, created)
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input JobInput) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, job, input); err != nil {
		return nil, err
	}
	job.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, job)
	if err != nil {
		return nil, err
	}
	s.logger.Info("careers.updated", "job_id", updated.ID)
	s.emitActivity(ctx, input.ActorID, domain.ActionUpdate, updated)
	return updated, nil
}

// apply copies input onto job and validates the result.
func (s *service) apply(ctx context.Context, job *Job, input JobInput) error {
	status, ok := domain.JobStatuses.Parse(input.Status)
	if !ok {
		return ErrStatusInvalid
	}
	job.Title = input.Title.Trimmed()
	job.Description = input.Description.Trimmed()
	job.Requirements = input.Requirements.Trimmed()
	job.Department = strings.TrimSpace(input.Department)
	job.Location = strings.TrimSpace(input.Location)
	job.EmploymentType = domain.EmploymentType(strings.ToLower(strings.TrimSpace(input.EmploymentType)))
	if job.EmploymentType == "" {
		job.EmploymentType = domain.EmploymentFullTime
	}
	job.Status = status
	job.Deadline = input.Deadline
	job.UpdatedBy = input.ActorID

	err := ozzo.ValidateStruct(job,
		ozzo.Field(&job.Title, ozzo.By(func(any) error {
			if job.Title.IsEmpty() {
				return ozzo.NewError("careers.title_required", "title is required in at least one locale")
			}
			return nil
		})),
		ozzo.Field(&job.Department, ozzo.Required, ozzo.Length(1, 120)),
		ozzo.Field(&job.EmploymentType, ozzo.In(domain.EmploymentTypes...)),
	)
	if err != nil {
		return err
	}

	jobSlug := shared.FirstSlug(input.Slug, job.Title.En, job.Title.Ar)
	if jobSlug == "" {
		return ErrSlugRequired
	}
	if !slug.IsValid(jobSlug) {
		return ErrSlugInvalid
	}
	existing, err := s.repo.FindOne(ctx, "slug", jobSlug)
	switch {
	case err == nil && existing.ID != job.ID:
		return ErrSlugExists
	case err != nil && !store.IsNotFound(err):
		return err
	}
	job.Slug = jobSlug
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, jobSlug string) (*Job, error) {
	job, err := s.repo.FindOne(ctx, "slug", strings.TrimSpace(jobSlug))
	if err != nil {
		return nil, err
	}
	if job.Status != domain.StatusOpen {
		return nil, &store.NotFoundError{Resource: "job", Key: jobSlug}
	}
	return job, nil
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Job], error) {
	return s.repo.List(ctx, q)
}

func (s *service) ListOpen(ctx context.Context, q listing.Query) (listing.Result[*Job], error) {
	q = q.Normalized().WithFilter("status", string(domain.StatusOpen))
	candidates, err := s.repo.Find(ctx, q)
	if err != nil {
		return listing.Result[*Job]{}, err
	}

	now := s.now()
	open := make([]*Job, 0, len(candidates))
	for _, job := range candidates {
		if job.AcceptsApplications(now) {
			open = append(open, job)
		}
	}

	pagination := shared.CalculatePagination(len(open), q.Page, q.Limit)
	start := min(q.Offset(), len(open))
	end := min(start+pagination.Limit, len(open))
	return listing.Result[*Job]{Items: open[start:end], Pagination: pagination}, nil
}

func (s *service) Delete(ctx context.Context, id, actor uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("careers.deleted", "job_id", id)
	s.emitActivity(ctx, actor, domain.ActionDelete, job)
	return nil
}

func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	parsed, ok := domain.JobStatuses.Parse(status)
	if !ok || strings.TrimSpace(status) == "" {
		return 0, ErrStatusInvalid
	}
	modified, err := s.repo.UpdateStatus(ctx, ids, string(parsed))
	if err != nil {
		return 0, err
	}
	s.logger.Info("careers.bulk_status", "ids", len(ids), "status", parsed, "modified", modified)
	return modified, nil
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("careers.bulk_delete", "ids", len(ids), "deleted", deleted)
	return deleted, nil
}

func (s *service) Statuses() []string {
	return domain.JobStatuses.Strings()
}

func (s *service) emitActivity(ctx context.Context, actor uuid.UUID, verb string, job *Job) {
	if s.activity == nil || !s.activity.Enabled() || job == nil {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: "job",
		ObjectID:   job.ID.String(),
		Metadata: map[string]any{
			"slug":        job.Slug,
			"description": verb + " job " + job.Title.Get(shared.DefaultLocale),
		},
	})
}
