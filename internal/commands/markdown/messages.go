package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/posts"
)

const importPostsMessageType = "sitecms.posts.import_markdown"

// ImportPostsCommand loads every markdown file under Directory and creates or
// updates the matching blog posts. Files named "<slug>.<locale>.md" are merged
// into one bilingual post.
type ImportPostsCommand struct {
	Directory string `json:"directory"`
	// Publish marks imported posts published unless their front matter says draft.
	Publish bool `json:"publish,omitempty"`
	// Overwrite updates existing posts instead of skipping them.
	Overwrite     bool      `json:"overwrite,omitempty"`
	DefaultAuthor string    `json:"default_author,omitempty"`
	ActorID       uuid.UUID `json:"actor_id,omitempty"`

	// Result receives the import summary when non-nil.
	Result *posts.ImportResult `json:"-"`
}

// Type implements command.Message.
func (ImportPostsCommand) Type() string { return importPostsMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportPostsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("sitecms.markdown.import_posts.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
