package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const (
	bulkStatusMessageType = "sitecms.bulk.status"
	bulkDeleteMessageType = "sitecms.bulk.delete"
)

// BulkTarget is implemented by services that accept bulk actions. Statuses
// lists the values UpdateStatus accepts.
type BulkTarget interface {
	BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	Statuses() []string
}

// BulkResult receives the number of records a bulk command touched.
type BulkResult struct {
	Modified int `json:"modified"`
}

// BulkStatusCommand moves every listed record of Resource to Status.
type BulkStatusCommand struct {
	Resource string      `json:"resource"`
	IDs      []uuid.UUID `json:"ids"`
	Status   string      `json:"status"`
	Allowed  []string    `json:"-"`
	Result   *BulkResult `json:"-"`
}

func (BulkStatusCommand) Type() string { return bulkStatusMessageType }

func (m BulkStatusCommand) Validate() error {
	errs := ozzo.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = ozzo.NewError("sitecms.bulk.resource_required", "resource is required")
	}
	if err := validateIDs(m.IDs); err != nil {
		errs["ids"] = err
	}
	switch {
	case strings.TrimSpace(m.Status) == "":
		errs["status"] = ozzo.NewError("sitecms.bulk.status_required", "status is required")
	case len(m.Allowed) > 0 && !slices.Contains(m.Allowed, m.Status):
		errs["status"] = ozzo.NewError("sitecms.bulk.status_invalid",
			fmt.Sprintf("status must be one of: %s", strings.Join(m.Allowed, ", ")))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkDeleteCommand removes every listed record of Resource.
type BulkDeleteCommand struct {
	Resource string      `json:"resource"`
	IDs      []uuid.UUID `json:"ids"`
	Result   *BulkResult `json:"-"`
}

func (BulkDeleteCommand) Type() string { return bulkDeleteMessageType }

func (m BulkDeleteCommand) Validate() error {
	errs := ozzo.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = ozzo.NewError("sitecms.bulk.resource_required", "resource is required")
	}
	if err := validateIDs(m.IDs); err != nil {
		errs["ids"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UnknownResourceError is returned for bulk actions on unregistered resources.
type UnknownResourceError struct {
	Resource string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("bulk actions not supported for %q", e.Resource)
}

// Bulk routes bulk commands to registered resource services.
type Bulk struct {
	mu      sync.RWMutex
	targets map[string]BulkTarget
	status  *Handler[BulkStatusCommand]
	remove  *Handler[BulkDeleteCommand]
}

// NewBulk wires the bulk status and delete handlers.
func NewBulk(logger interfaces.Logger) *Bulk {
	b := &Bulk{targets: map[string]BulkTarget{}}
	b.status = NewHandler(b.execStatus,
		WithLogger[BulkStatusCommand](logger),
		WithOperation[BulkStatusCommand]("bulk.status"),
	)
	b.remove = NewHandler(b.execDelete,
		WithLogger[BulkDeleteCommand](logger),
		WithOperation[BulkDeleteCommand]("bulk.delete"),
	)
	return b
}

// Register exposes target under resource.
func (b *Bulk) Register(resource string, target BulkTarget) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.targets[resource] = target
}

// Resources lists registered resource names.
func (b *Bulk) Resources() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.targets))
}

// StatusHandler exposes the status handler for dispatcher subscription.
func (b *Bulk) StatusHandler() *Handler[BulkStatusCommand] { return b.status }

// DeleteHandler exposes the delete handler for dispatcher subscription.
func (b *Bulk) DeleteHandler() *Handler[BulkDeleteCommand] { return b.remove }

// SetStatus runs a BulkStatusCommand and returns the modified count.
func (b *Bulk) SetStatus(ctx context.Context, resource string, ids []uuid.UUID, status string) (int, error) {
	target, err := b.target(resource)
	if err != nil {
		return 0, err
	}
	result := &BulkResult{}
	err = b.status.Execute(ctx, BulkStatusCommand{
		Resource: resource,
		IDs:      ids,
		Status:   strings.ToLower(strings.TrimSpace(status)),
		Allowed:  target.Statuses(),
		Result:   result,
	})
	return result.Modified, err
}

// Delete runs a BulkDeleteCommand and returns the deleted count.
func (b *Bulk) Delete(ctx context.Context, resource string, ids []uuid.UUID) (int, error) {
	if _, err := b.target(resource); err != nil {
		return 0, err
	}
	result := &BulkResult{}
	err := b.remove.Execute(ctx, BulkDeleteCommand{Resource: resource, IDs: ids, Result: result})
	return result.Modified, err
}

func (b *Bulk) execStatus(ctx context.Context, msg BulkStatusCommand) error {
	target, err := b.target(msg.Resource)
	if err != nil {
		return err
	}
	modified, err := target.BulkStatus(ctx, msg.IDs, msg.Status)
	if msg.Result != nil {
		msg.Result.Modified = modified
	}
	return err
}

func (b *Bulk) execDelete(ctx context.Context, msg BulkDeleteCommand) error {
	target, err := b.target(msg.Resource)
	if err != nil {
		return err
	}
	deleted, err := target.DeleteMany(ctx, msg.IDs)
	if msg.Result != nil {
		msg.Result.Modified = deleted
	}
	return err
}

func (b *Bulk) target(resource string) (BulkTarget, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	target, ok := b.targets[resource]
	if !ok {
		return nil, &UnknownResourceError{Resource: resource}
	}
	return target, nil
}

func validateIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return ozzo.NewError("sitecms.bulk.ids_required", "at least one id is required")
	}
	for _, id := range ids {
		if id == uuid.Nil {
			return ozzo.NewError("sitecms.bulk.id_invalid", "ids must not contain the nil uuid")
		}
	}
	return nil
}
