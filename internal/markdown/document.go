package markdown

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Meta is the front matter understood by the post importer.
type Meta struct {
	Title    string    `yaml:"title"`
	Slug     string    `yaml:"slug"`
	Excerpt  string    `yaml:"excerpt"`
	Locale   string    `yaml:"locale"`
	Status   string    `yaml:"status"`
	Author   string    `yaml:"author"`
	Avatar   string    `yaml:"avatar"`
	Category string    `yaml:"category"`
	Tags     []string  `yaml:"tags"`
	Cover    string    `yaml:"cover"`
	Featured bool      `yaml:"featured"`
	Draft    bool      `yaml:"draft"`
	Date     time.Time `yaml:"date"`
}

// Document is a parsed markdown file.
type Document struct {
	Path   string
	Locale string
	Meta   Meta
	Body   string
}

// Key groups translations of the same post: the explicit slug, or the file
// name without locale and extension.
func (d Document) Key() string {
	if slug := strings.TrimSpace(d.Meta.Slug); slug != "" {
		return slug
	}
	base := strings.TrimSuffix(path.Base(d.Path), path.Ext(d.Path))
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}

// Parse splits source into front matter and body. The locale comes from the
// front matter, then from a "name.<locale>.md" file name.
func Parse(name string, source []byte) (Document, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter %s: %w", name, err)
	}
	locale := strings.ToLower(strings.TrimSpace(meta.Locale))
	if locale == "" {
		locale = localeFromName(name)
	}
	return Document{
		Path:   name,
		Locale: locale,
		Meta:   meta,
		Body:   strings.TrimSpace(string(body)),
	}, nil
}

// Load parses every *.md file below root in fsys, in lexical order.
func Load(fsys fs.FS, root string) ([]Document, error) {
	if root == "" {
		root = "."
	}
	var docs []Document
	err := fs.WalkDir(fsys, root, func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(path.Ext(name), ".md") {
			return nil
		}
		source, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		doc, err := Parse(name, source)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load markdown: %w", err)
	}
	return docs, nil
}

func localeFromName(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}
