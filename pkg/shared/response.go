package shared

// NotificationSettingsKey names the persisted notification preferences.
const NotificationSettingsKey = "notificationSettings"

// FilterAll is the sentinel filter value meaning "do not filter".
const FilterAll = "all"

// Response is the envelope returned by every API endpoint.
type Response[T any] struct {
	Success    bool      `json:"success"`
	Data       T         `json:"data,omitempty"`
	Message    string    `json:"message,omitempty"`
	Error      *APIError `json:"error,omitempty"`
	Pagination *PageMeta `json:"pagination,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// PageMeta is the pagination block attached to list responses.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: data}
}

// Paged wraps a list page in a successful envelope.
func Paged[T any](data T, pagination Pagination) Response[T] {
	meta := pagination.Meta()
	return Response[T]{Success: true, Data: data, Pagination: &meta}
}

// Fail builds an error envelope.
func Fail(code, message string, details map[string]any) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
		Error:   &APIError{Code: code, Message: message, Details: details},
	}
}
