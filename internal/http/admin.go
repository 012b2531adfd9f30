package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/dashboard"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/internal/portfolio"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/translations"
	"github.com/goliatone/go-sitecms/internal/users"
)

// DefaultAdminBasePath is where the admin API mounts unless overridden.
const DefaultAdminBasePath = "/admin/api"

// AdminAPI registers the back-office endpoints.
type AdminAPI struct {
	basePath      string
	posts         posts.Service
	careers       careers.Service
	portfolio     portfolio.Service
	messages      messages.Service
	notifications notifications.Service
	users         users.Service
	activity      activity.Service
	translations  translations.Service
	content       content.Service
	newsletter    newsletter.Service
	dashboard     *dashboard.Service
	bulk          *commands.Bulk
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: DefaultAdminBasePath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithPostService(service posts.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.posts = service
		}
	}
}

func WithCareerService(service careers.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.careers = service
		}
	}
}

func WithPortfolioService(service portfolio.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.portfolio = service
		}
	}
}

func WithMessageService(service messages.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.messages = service
		}
	}
}

func WithNotificationService(service notifications.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.notifications = service
		}
	}
}

func WithUserService(service users.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.users = service
		}
	}
}

func WithActivityService(service activity.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.activity = service
		}
	}
}

func WithTranslationService(service translations.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.translations = service
		}
	}
}

// WithContentService wires the content entry service.
func WithContentService(service content.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.content = service
		}
	}
}

func WithNewsletterService(service newsletter.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.newsletter = service
		}
	}
}

// WithDashboard wires the analytics summary.
func WithDashboard(service *dashboard.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.dashboard = service
		}
	}
}

// WithBulk wires the bulk command router backing every bulk-status and
// bulk-delete endpoint.
func WithBulk(bulk *commands.Bulk) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.bulk = bulk
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerBulkRoutes(mux, base)
	api.registerPostRoutes(mux, base)
	api.registerCareerRoutes(mux, base)
	api.registerPortfolioRoutes(mux, base)
	api.registerMessageRoutes(mux, base)
	api.registerNotificationRoutes(mux, base)
	api.registerUserRoutes(mux, base)
	api.registerActivityRoutes(mux, base)
	api.registerTranslationRoutes(mux, base)
	api.registerContentRoutes(mux, base)
	api.registerNewsletterRoutes(mux, base)
	api.registerDashboardRoutes(mux, base)

	return nil
}
