package markdowncmd_test

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	markdowncmd "github.com/goliatone/go-sitecms/internal/commands/markdown"
	"github.com/goliatone/go-sitecms/internal/posts"
)

func blogFS() fstest.MapFS {
	return fstest.MapFS{
		"launch.en.md": {Data: []byte("---\ntitle: Launch day\nauthor: Team\ncategory: News\n---\nWe are live.\n")},
		"launch.ar.md": {Data: []byte("---\ntitle: يوم الإطلاق\n---\nلقد انطلقنا.\n")},
		"notes.txt":    {Data: []byte("ignored")},
	}
}

func TestImportPostsHandlerCreatesBilingualPosts(t *testing.T) {
	service := posts.NewService(posts.NewMemoryRepository())
	var opened string
	handler := markdowncmd.NewImportPostsHandler(service, nil, markdowncmd.WithFS(func(dir string) fs.FS {
		opened = dir
		return blogFS()
	}))

	var result posts.ImportResult
	if err := handler.Execute(context.Background(), markdowncmd.ImportPostsCommand{
		Directory: "content/blog",
		Publish:   true,
		Result:    &result,
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if opened != "content/blog" {
		t.Fatalf("expected directory to be opened, got %q", opened)
	}
	if len(result.Created) != 1 || result.Created[0] != "launch" {
		t.Fatalf("expected one created post, got %+v", result)
	}

	post, err := service.GetBySlug(context.Background(), "launch")
	if err != nil {
		t.Fatalf("get imported post: %v", err)
	}
	if post.Title.En != "Launch day" || post.Title.Ar == "" {
		t.Fatalf("expected bilingual title, got %+v", post.Title)
	}
	if post.Author.Name != "Team" {
		t.Fatalf("expected author from front matter, got %+v", post.Author)
	}
}

func TestImportPostsHandlerSkipsExistingWithoutOverwrite(t *testing.T) {
	service := posts.NewService(posts.NewMemoryRepository())
	handler := markdowncmd.NewImportPostsHandler(service, nil, markdowncmd.WithFS(func(string) fs.FS {
		return blogFS()
	}))

	ctx := context.Background()
	if err := handler.Execute(ctx, markdowncmd.ImportPostsCommand{Directory: "blog", Publish: true}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	var result posts.ImportResult
	if err := handler.Execute(ctx, markdowncmd.ImportPostsCommand{Directory: "blog", Result: &result}); err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.Skipped) != 1 || len(result.Created) != 0 {
		t.Fatalf("expected the existing post to be skipped, got %+v", result)
	}
}

func TestImportPostsCommandRequiresDirectory(t *testing.T) {
	handler := markdowncmd.NewImportPostsHandler(posts.NewService(posts.NewMemoryRepository()), nil)

	err := handler.Execute(context.Background(), markdowncmd.ImportPostsCommand{Directory: "  "})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
