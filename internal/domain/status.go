// Package domain holds the lifecycle enums shared by sitecms resources.
package domain

import (
	"slices"
	"strings"
)

// Status is the persisted lifecycle value of any resource. Each resource
// accepts only its own subset, described by a StatusSet.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"

	StatusOpen   Status = "open"
	StatusClosed Status = "closed"

	StatusUnread  Status = "unread"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"

	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"

	StatusSubscribed   Status = "subscribed"
	StatusUnsubscribed Status = "unsubscribed"
)

// StatusSet lists the statuses a resource accepts; the first entry is its
// default.
type StatusSet []Status

var (
	PublicationStatuses = StatusSet{StatusDraft, StatusPublished, StatusArchived}
	JobStatuses         = StatusSet{StatusDraft, StatusOpen, StatusClosed}
	MessageStatuses     = StatusSet{StatusUnread, StatusRead, StatusReplied, StatusArchived}
	UserStatuses        = StatusSet{StatusActive, StatusInactive, StatusSuspended}
	SubscriberStatuses  = StatusSet{StatusSubscribed, StatusUnsubscribed}
)

// NormalizeStatus lowercases and trims raw input.
func NormalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Contains reports whether status belongs to the set.
func (s StatusSet) Contains(status Status) bool {
	return slices.Contains(s, status)
}

// Default returns the initial status for new records.
func (s StatusSet) Default() Status {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Parse normalises raw and validates it against the set. Blank input resolves
// to the default.
func (s StatusSet) Parse(raw string) (Status, bool) {
	status := NormalizeStatus(raw)
	if status == "" {
		return s.Default(), true
	}
	return status, s.Contains(status)
}

// Strings returns the set as plain strings, handy for validation rules.
func (s StatusSet) Strings() []string {
	out := make([]string, len(s))
	for i, status := range s {
		out[i] = string(status)
	}
	return out
}

// In converts the set for use with ozzo-validation's validation.In.
func (s StatusSet) In() []any {
	out := make([]any, len(s))
	for i, status := range s {
		out[i] = status
	}
	return out
}
