package client_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/pkg/client"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

type row struct {
	ID   uuid.UUID
	Name string
}

func rowID(r row) uuid.UUID { return r.ID }

func staticRows(names ...string) []row {
	rows := make([]row, len(names))
	for i, name := range names {
		rows[i] = row{ID: uuid.New(), Name: name}
	}
	return rows
}

// filterFetcher serves rows whose name contains the search term.
func filterFetcher(rows []row) client.Fetcher[row] {
	return func(_ context.Context, params client.ListParams) (client.Page[row], error) {
		var out []row
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Name), strings.ToLower(params.Search)) {
				out = append(out, r)
			}
		}
		return client.Page[row]{Items: out, Pagination: shared.PageMeta{Page: params.Page, Limit: 10, Total: len(out), Pages: 1}}, nil
	}
}

func TestFilterChangesResetPage(t *testing.T) {
	list := client.NewListController(filterFetcher(nil), rowID, client.ListParams{})

	setters := map[string]func(){
		"search": func() { list.SetSearch("login") },
		"status": func() { list.SetStatus("archived") },
		"type":   func() { list.SetType("update") },
		"sort":   func() { list.SetSort("createdAt:asc") },
		"limit":  func() { list.SetLimit(50) },
		"range":  func() { list.SetDateRange(nil, nil) },
		"extra":  func() { list.SetFilter("namespace", "nav") },
	}
	for name, set := range setters {
		list.SetPage(3)
		set()
		if got := list.Page(); got != 1 {
			t.Fatalf("%s: expected page reset to 1, got %d", name, got)
		}
	}

	list.SetPage(4)
	if got := list.Params().Page; got != 4 {
		t.Fatalf("expected SetPage to keep page 4, got %d", got)
	}
	list.SetPage(0)
	if got := list.Page(); got != 1 {
		t.Fatalf("expected page clamp to 1, got %d", got)
	}
}

func TestSelectAllOnlySelectsVisibleRows(t *testing.T) {
	rows := staticRows("alpha", "beta", "alphabet")
	list := client.NewListController(filterFetcher(rows), rowID, client.ListParams{})
	ctx := context.Background()

	if err := list.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	list.Toggle(rows[1].ID)

	list.SetSearch("alpha")
	if err := list.Refresh(ctx); err != nil {
		t.Fatalf("refresh filtered: %v", err)
	}
	if list.IsSelected(rows[1].ID) {
		t.Fatalf("expected hidden row to drop out of the selection")
	}
	if n := list.SelectAll(); n != 2 {
		t.Fatalf("expected two visible rows selected, got %d", n)
	}
	selected := list.Selected()
	if len(selected) != 2 || selected[0] != rows[0].ID || selected[1] != rows[2].ID {
		t.Fatalf("unexpected selection %v", selected)
	}

	if list.Toggle(rows[0].ID) {
		t.Fatalf("expected toggle to deselect")
	}
	list.Clear()
	if len(list.Selected()) != 0 {
		t.Fatalf("expected empty selection after Clear")
	}
}

func TestRefreshDiscardsSupersededResponse(t *testing.T) {
	rows := staticRows("old", "new")
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	fetch := func(ctx context.Context, params client.ListParams) (client.Page[row], error) {
		if params.Search == "old" {
			once.Do(func() { close(started) })
			<-release
		}
		return filterFetcher(rows)(ctx, params)
	}
	list := client.NewListController[row](fetch, rowID, client.ListParams{Search: "old"})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- list.Refresh(ctx) }()
	<-started

	list.SetSearch("new")
	if err := list.Refresh(ctx); err != nil {
		t.Fatalf("fast refresh: %v", err)
	}
	close(release)

	if err := <-slow; !errors.Is(err, client.ErrStale) {
		t.Fatalf("expected ErrStale for superseded refresh, got %v", err)
	}
	items := list.Items()
	if len(items) != 1 || items[0].Name != "new" {
		t.Fatalf("expected newest rows to win, got %+v", items)
	}
	if list.Loading() {
		t.Fatalf("expected loading to be cleared")
	}
}

func TestRefreshRecordsError(t *testing.T) {
	boom := errors.New("boom")
	list := client.NewListController[row](func(context.Context, client.ListParams) (client.Page[row], error) {
		return client.Page[row]{}, boom
	}, rowID, client.ListParams{})

	if err := list.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if !errors.Is(list.Err(), boom) || list.Loading() {
		t.Fatalf("expected error state, got err=%v loading=%v", list.Err(), list.Loading())
	}
}

func TestRunBulkRejectsConcurrentSubmission(t *testing.T) {
	rows := staticRows("one", "two")
	list := client.NewListController(filterFetcher(rows), rowID, client.ListParams{})
	ctx := context.Background()
	if err := list.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	list.SelectAll()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := list.RunBulk(ctx, func(context.Context, []uuid.UUID) (int, error) {
			close(entered)
			<-release
			return 2, nil
		})
		done <- err
	}()
	<-entered

	if !list.BulkBusy() {
		t.Fatalf("expected bulk to be busy")
	}
	if _, err := list.RunBulk(ctx, func(context.Context, []uuid.UUID) (int, error) { return 0, nil }); !errors.Is(err, client.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(list.Selected()) != 0 {
		t.Fatalf("expected selection cleared after bulk action")
	}

	if _, err := list.RunBulk(ctx, func(context.Context, []uuid.UUID) (int, error) { return 0, nil }); !errors.Is(err, client.ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
}

func TestRunBulkKeepsSelectionOnFailure(t *testing.T) {
	rows := staticRows("one")
	list := client.NewListController(filterFetcher(rows), rowID, client.ListParams{})
	ctx := context.Background()
	if err := list.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	list.SelectAll()

	boom := errors.New("boom")
	if _, err := list.RunBulk(ctx, func(context.Context, []uuid.UUID) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected action error, got %v", err)
	}
	if len(list.Selected()) != 1 {
		t.Fatalf("expected selection kept after failure")
	}
}

func TestArchiveClearsSelectionAgainstSiteServer(t *testing.T) {
	c := newSiteServer(t)
	ctx := context.Background()
	submitMessages(t, c, 5)

	messages := c.Messages()
	list := client.NewListController[*client.Message](messages.List, func(m *client.Message) uuid.UUID { return m.ID }, client.ListParams{Status: shared.FilterAll})
	if err := list.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	items := list.Items()
	if len(items) != 5 {
		t.Fatalf("expected five messages, got %d", len(items))
	}
	list.Toggle(items[0].ID)
	list.Toggle(items[3].ID)

	modified, err := list.RunBulk(ctx, messages.Archive)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if modified != 2 {
		t.Fatalf("expected two archived, got %d", modified)
	}
	if len(list.Selected()) != 0 {
		t.Fatalf("expected selection cleared, got %v", list.Selected())
	}

	stats, err := messages.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ByStatus["archived"] != 2 {
		t.Fatalf("expected two archived messages, got %+v", stats.ByStatus)
	}
}
