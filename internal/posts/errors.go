package posts

import "errors"

var (
	ErrSlugRequired    = errors.New("posts: slug is required")
	ErrSlugInvalid     = errors.New("posts: slug contains invalid characters")
	ErrSlugExists      = errors.New("posts: slug already exists")
	ErrStatusInvalid   = errors.New("posts: status invalid")
	ErrPostIDRequired  = errors.New("posts: post id required")
	ErrRendererMissing = errors.New("posts: markdown renderer not configured")
)
