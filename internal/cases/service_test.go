package cases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeTaxonomy struct {
	entities []taxonomy.Entity
}

func (f *fakeTaxonomy) Ensure(_ context.Context, slug, name string) (taxonomy.Entity, error) {
	for _, e := range f.entities {
		if e.Slug == slug {
			return e, nil
		}
	}
	e := taxonomy.Entity{ID: "id-" + slug, Slug: slug, Name: name}
	f.entities = append(f.entities, e)
	return e, nil
}

func (f *fakeTaxonomy) GetBySlug(_ context.Context, slug string) (taxonomy.Entity, error) {
	for _, e := range f.entities {
		if e.Slug == slug {
			return e, nil
		}
	}
	return taxonomy.Entity{}, taxonomy.ErrNotFound
}

func (f *fakeTaxonomy) GetByIDs(_ context.Context, ids []string) ([]taxonomy.Entity, error) {
	out := make([]taxonomy.Entity, 0, len(ids))
	for _, e := range f.entities {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (f *fakeTaxonomy) List(_ context.Context) ([]taxonomy.Entity, error) {
	return f.entities, nil
}

type fakeCaseRepo struct {
	items []Case
	// lastQuery records the most recent ListPublished call.
	lastQuery []string
}

func (f *fakeCaseRepo) Create(_ context.Context, item Case) error {
	for _, existing := range f.items {
		if existing.Slug == item.Slug && existing.Locale == item.Locale {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeCaseRepo) UpsertDraft(_ context.Context, item Case) (bool, error) {
	for _, existing := range f.items {
		if existing.Slug == item.Slug && existing.Locale == item.Locale {
			return false, nil
		}
	}
	item.Status = StatusDraft
	f.items = append(f.items, item)
	return true, nil
}

func (f *fakeCaseRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCaseRepo) ListPublished(_ context.Context, locale, tagID, toolID string) ([]Case, error) {
	f.lastQuery = []string{locale, tagID, toolID}
	out := make([]Case, 0)
	for _, item := range f.items {
		if item.Locale != locale || item.Status != StatusPublished {
			continue
		}
		if tagID != "" && !contains(item.TagIDs, tagID) {
			continue
		}
		if toolID != "" && !contains(item.ToolIDs, toolID) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeCaseRepo) GetPublishedBySlug(_ context.Context, locale, slug string) (Case, error) {
	for _, item := range f.items {
		if item.Slug == slug && item.Locale == locale && item.Status == StatusPublished {
			return item, nil
		}
	}
	return Case{}, mongo.ErrNoDocuments
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func testService(repo *fakeCaseRepo, tags, tools *fakeTaxonomy) *Service {
	return NewService(repo, tags, tools, time.UTC)
}

func TestListPublishedInvalidLocale(t *testing.T) {
	svc := testService(&fakeCaseRepo{}, &fakeTaxonomy{}, &fakeTaxonomy{})
	if _, err := svc.ListPublished(context.Background(), PublicListFilter{Locale: "de"}); !errors.Is(err, ErrInvalidLocale) {
		t.Fatalf("expected ErrInvalidLocale, got %v", err)
	}
}

func TestListPublishedUnknownFilterSlug(t *testing.T) {
	repo := &fakeCaseRepo{items: []Case{{ID: "c1", Slug: "a", Locale: "nl", Status: StatusPublished}}}
	svc := testService(repo, &fakeTaxonomy{}, &fakeTaxonomy{})

	items, err := svc.ListPublished(context.Background(), PublicListFilter{Locale: "nl", TagSlug: "no-such-tag"})
	if err != nil {
		t.Fatalf("ListPublished error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("unknown filter slug must yield empty result, got %d", len(items))
	}
	if repo.lastQuery != nil {
		t.Fatalf("repository must not be queried for an unknown filter slug")
	}
}

func TestListPublishedResolvesRefs(t *testing.T) {
	tags := &fakeTaxonomy{entities: []taxonomy.Entity{
		{ID: "t1", Slug: "ai-tools", Name: "AI Tools"},
		{ID: "t2", Slug: "saas", Name: "Saas"},
	}}
	tools := &fakeTaxonomy{entities: []taxonomy.Entity{
		{ID: "w1", Slug: "cursor", Name: "Cursor"},
	}}
	repo := &fakeCaseRepo{items: []Case{{
		ID:     "c1",
		Slug:   "my-cool-project",
		Locale: "nl",
		Status: StatusPublished,
		// w2 no longer exists and must be dropped silently.
		TagIDs:  []string{"t2", "t1"},
		ToolIDs: []string{"w2", "w1"},
	}}}
	svc := testService(repo, tags, tools)

	items, err := svc.ListPublished(context.Background(), PublicListFilter{Locale: "nl"})
	if err != nil {
		t.Fatalf("ListPublished error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 case, got %d", len(items))
	}
	got := items[0]
	if len(got.Tags) != 2 || got.Tags[0].Slug != "saas" || got.Tags[1].Slug != "ai-tools" {
		t.Fatalf("tag refs must follow id order: %v", got.Tags)
	}
	if len(got.Tools) != 1 || got.Tools[0].Slug != "cursor" {
		t.Fatalf("orphaned tool id must be dropped: %v", got.Tools)
	}
}

func TestListPublishedCombinesFilters(t *testing.T) {
	tags := &fakeTaxonomy{entities: []taxonomy.Entity{{ID: "t1", Slug: "saas", Name: "Saas"}}}
	tools := &fakeTaxonomy{entities: []taxonomy.Entity{{ID: "w1", Slug: "cursor", Name: "Cursor"}}}
	repo := &fakeCaseRepo{items: []Case{
		{ID: "c1", Slug: "both", Locale: "en", Status: StatusPublished, TagIDs: []string{"t1"}, ToolIDs: []string{"w1"}},
		{ID: "c2", Slug: "tag-only", Locale: "en", Status: StatusPublished, TagIDs: []string{"t1"}},
	}}
	svc := testService(repo, tags, tools)

	items, err := svc.ListPublished(context.Background(), PublicListFilter{Locale: "en", TagSlug: "saas", ToolSlug: "cursor"})
	if err != nil {
		t.Fatalf("ListPublished error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "c1" {
		t.Fatalf("filters must combine conjunctively, got %v", items)
	}
}

func TestGetPublishedBySlugHidesDrafts(t *testing.T) {
	repo := &fakeCaseRepo{items: []Case{{ID: "c1", Slug: "wip", Locale: "nl", Status: StatusDraft}}}
	svc := testService(repo, &fakeTaxonomy{}, &fakeTaxonomy{})

	if _, err := svc.GetPublishedBySlug(context.Background(), "nl", "wip"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a draft, got %v", err)
	}
	if _, err := svc.GetPublishedBySlug(context.Background(), "nl", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing slug, got %v", err)
	}
}

func TestCreatePublishedDuplicateSlug(t *testing.T) {
	repo := &fakeCaseRepo{}
	svc := testService(repo, &fakeTaxonomy{}, &fakeTaxonomy{})

	req := NewCase{Slug: "my-cool-project", Title: "My Cool Project", Locale: "nl"}
	if _, err := svc.CreatePublished(context.Background(), req); err != nil {
		t.Fatalf("CreatePublished error: %v", err)
	}
	if _, err := svc.CreatePublished(context.Background(), req); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}

	// Same slug under another locale is a distinct record.
	req.Locale = "en"
	if _, err := svc.CreatePublished(context.Background(), req); err != nil {
		t.Fatalf("CreatePublished other locale error: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := testService(&fakeCaseRepo{}, &fakeTaxonomy{}, &fakeTaxonomy{})

	if _, err := svc.CreatePublished(context.Background(), NewCase{Slug: " ", Locale: "nl"}); !errors.Is(err, ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
	if _, err := svc.CreateDraft(context.Background(), NewCase{Slug: "ok", Locale: "fr"}); !errors.Is(err, ErrInvalidLocale) {
		t.Fatalf("expected ErrInvalidLocale, got %v", err)
	}
}
