package domain

// Role grants admin capabilities to a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

var Roles = []any{RoleAdmin, RoleEditor, RoleViewer}

// EmploymentType classifies a job opening.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

var EmploymentTypes = []any{EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship}

// PortfolioKind separates showcased projects from offered services.
type PortfolioKind string

const (
	KindProject PortfolioKind = "project"
	KindService PortfolioKind = "service"
)

var PortfolioKinds = []any{KindProject, KindService}

// NotificationType drives the badge shown next to a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

var NotificationTypes = []any{NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError}

// Activity verbs recorded by services.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionStatus     = "status"
	ActionLogin      = "login"
	ActionReply      = "reply"
	ActionPublish    = "publish"
	ActionImport     = "import"
	ActionSubscribe  = "subscribe"
	ActionBulkDelete = "bulk_delete"
	ActionBulkStatus = "bulk_status"
)
