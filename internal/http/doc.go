// Package http provides the net/http adapters for the site CMS.
//
// Admin routes mount under /admin/api:
//   - Posts: /posts, /posts/{id}, /posts/{id}/preview, /posts/stats, /posts/import
//   - Jobs and portfolio: /jobs, /jobs/{id}, /portfolio, /portfolio/{id}
//   - Inbox: /messages, /messages/{id}, /messages/{id}/reply, /messages/stats
//   - Notifications: /notifications, /notifications/unread-count,
//     /notifications/read, /notifications/read-all, /notifications/settings
//   - Users: /users, /users/{id}, /users/{id}/login
//   - Activity log: /activity, /activity/recent, /activity/export, /activity/purge
//   - Translations: /translations, /translations/bulk, /translations/missing,
//     /translations/{namespace}/{key}
//   - Content entries: /content, /content/bulk, /content/{key}
//   - Newsletter: /newsletter, /newsletter/count, /newsletter/export
//   - Bulk actions: /{resource}/bulk-status, /{resource}/bulk-delete
//   - Dashboard: /dashboard
//
// Public routes mount under /api, plus /sitemap.xml. Every JSON response is
// a shared.Response envelope.
package http
