package submissions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeTaxonomy struct {
	entities []taxonomy.Entity
	nextID   int
}

func (f *fakeTaxonomy) Ensure(_ context.Context, slug, name string) (taxonomy.Entity, error) {
	for _, e := range f.entities {
		if e.Slug == slug {
			return e, nil
		}
	}
	f.nextID++
	e := taxonomy.Entity{ID: fmt.Sprintf("id-%d", f.nextID), Slug: slug, Name: name, CreatedAt: time.Now()}
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

type fakeRepo struct {
	items map[string]CaseSubmission
	// forceTransitionFail makes every compare-and-set report a lost race.
	forceTransitionFail bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]CaseSubmission)}
}

func (f *fakeRepo) Create(_ context.Context, sub CaseSubmission) error {
	f.items[sub.ID] = sub
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (CaseSubmission, error) {
	sub, ok := f.items[id]
	if !ok {
		return CaseSubmission{}, mongo.ErrNoDocuments
	}
	return sub, nil
}

func (f *fakeRepo) ListPending(_ context.Context) ([]CaseSubmission, error) {
	out := make([]CaseSubmission, 0)
	for _, sub := range f.items {
		if sub.Status == StatusPending {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeRepo) TransitionStatus(_ context.Context, id, from, to, caseID string, now time.Time) (bool, error) {
	if f.forceTransitionFail {
		return false, nil
	}
	sub, ok := f.items[id]
	if !ok || sub.Status != from {
		return false, nil
	}
	sub.Status = to
	sub.UpdatedAt = now
	if caseID != "" {
		sub.ApprovedCaseID = caseID
	}
	f.items[id] = sub
	return true, nil
}

type fakeCaseStore struct {
	created []cases.Case
	deleted []string
	// takenSlugs simulates (slug, locale) unique index collisions.
	takenSlugs map[string]bool
	nextID     int
}

func newFakeCaseStore() *fakeCaseStore {
	return &fakeCaseStore{takenSlugs: make(map[string]bool)}
}

func (f *fakeCaseStore) CreatePublished(_ context.Context, req cases.NewCase) (cases.Case, error) {
	key := req.Slug + "|" + req.Locale
	if f.takenSlugs[key] {
		return cases.Case{}, cases.ErrSlugExists
	}
	f.takenSlugs[key] = true
	f.nextID++
	item := cases.Case{
		ID:      fmt.Sprintf("case-%d", f.nextID),
		Slug:    req.Slug,
		Title:   req.Title,
		Locale:  req.Locale,
		Status:  cases.StatusPublished,
		TagIDs:  req.TagIDs,
		ToolIDs: req.ToolIDs,
		Stack:   req.Stack,
	}
	f.created = append(f.created, item)
	return item, nil
}

func (f *fakeCaseStore) DeleteByID(_ context.Context, id string) (bool, error) {
	f.deleted = append(f.deleted, id)
	return true, nil
}

func newTestService(repo *fakeRepo, tags, tools *fakeTaxonomy, store *fakeCaseStore) *Service {
	return NewService(repo, tags, tools, store, time.UTC)
}

func seedPending(repo *fakeRepo, id string) CaseSubmission {
	sub := CaseSubmission{
		ID:        id,
		Title:     "My Cool Project!!",
		OneLiner:  "Built in a weekend.",
		Locale:    "nl",
		TagSlugs:  []string{"ai-tools", "new-tag"},
		ToolSlugs: []string{"cursor"},
		StackText: "Next.js, Supabase, Stripe",
		Email:     "builder@example.com",
		Status:    StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo.items[id] = sub
	return sub
}

func TestCreateNormalizesInput(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTaxonomy{}, &fakeTaxonomy{}, newFakeCaseStore())

	sub, err := svc.Create(context.Background(), CreateRequest{
		Title:     "My <b>Cool</b> Project",
		OneLiner:  "One liner",
		Locale:    "en",
		TagSlugs:  []string{"AI Tools", "  ", "saas"},
		StackText: "Next.js",
		Email:     "  Builder@Example.COM ",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if sub.Status != StatusPending {
		t.Fatalf("expected pending, got %q", sub.Status)
	}
	if sub.Email != "builder@example.com" {
		t.Fatalf("expected lower-cased email, got %q", sub.Email)
	}
	if len(sub.TagSlugs) != 2 || sub.TagSlugs[0] != "ai-tools" || sub.TagSlugs[1] != "saas" {
		t.Fatalf("unexpected normalized tag slugs: %v", sub.TagSlugs)
	}
	if sub.Title == "" || sub.Title != "My Cool Project" {
		t.Fatalf("expected markup stripped from title, got %q", sub.Title)
	}
	if _, ok := repo.items[sub.ID]; !ok {
		t.Fatalf("submission not stored")
	}
}

func TestApprovePublishesCase(t *testing.T) {
	repo := newFakeRepo()
	tags := &fakeTaxonomy{entities: []taxonomy.Entity{{ID: "tag-existing", Slug: "ai-tools", Name: "AI Tools"}}}
	tools := &fakeTaxonomy{}
	store := newFakeCaseStore()
	svc := newTestService(repo, tags, tools, store)
	sub := seedPending(repo, "sub-1")

	caseID, err := svc.Approve(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 case, got %d", len(store.created))
	}

	created := store.created[0]
	if caseID != created.ID {
		t.Fatalf("returned id %q does not match created case %q", caseID, created.ID)
	}
	if created.Slug != "my-cool-project" {
		t.Fatalf("unexpected slug %q", created.Slug)
	}
	if created.Status != cases.StatusPublished {
		t.Fatalf("expected published, got %q", created.Status)
	}
	if len(created.TagIDs) != 2 || created.TagIDs[0] != "tag-existing" {
		t.Fatalf("expected existing tag reused first, got %v", created.TagIDs)
	}
	if len(created.Stack) != 3 || created.Stack[0] != "Next.js" || created.Stack[2] != "Stripe" {
		t.Fatalf("unexpected stack split: %v", created.Stack)
	}

	// The missing tag gets created with a humanized name.
	entity, err := tags.GetBySlug(context.Background(), "new-tag")
	if err != nil {
		t.Fatalf("new tag not created: %v", err)
	}
	if entity.Name != "New Tag" {
		t.Fatalf("expected name New Tag, got %q", entity.Name)
	}

	stored := repo.items[sub.ID]
	if stored.Status != StatusApproved {
		t.Fatalf("expected approved, got %q", stored.Status)
	}
	if stored.ApprovedCaseID != created.ID {
		t.Fatalf("approved case id not recorded: %q", stored.ApprovedCaseID)
	}
}

func TestApproveIsFinal(t *testing.T) {
	repo := newFakeRepo()
	tags := &fakeTaxonomy{}
	store := newFakeCaseStore()
	svc := newTestService(repo, tags, &fakeTaxonomy{}, store)
	sub := seedPending(repo, "sub-1")

	if _, err := svc.Approve(context.Background(), sub.ID); err != nil {
		t.Fatalf("first Approve error: %v", err)
	}
	if _, err := svc.Approve(context.Background(), sub.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("second approval must not create a case, got %d", len(store.created))
	}
	if err := svc.Reject(context.Background(), sub.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on reject after approve, got %v", err)
	}
}

func TestApproveUnknownSubmission(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeTaxonomy{}, &fakeTaxonomy{}, newFakeCaseStore())
	if _, err := svc.Approve(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApproveEmptySlugTitle(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTaxonomy{}, &fakeTaxonomy{}, newFakeCaseStore())
	sub := seedPending(repo, "sub-1")
	sub.Title = "!!!"
	repo.items[sub.ID] = sub

	if _, err := svc.Approve(context.Background(), sub.ID); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if repo.items[sub.ID].Status != StatusPending {
		t.Fatalf("submission must stay pending on failed approval")
	}
}

func TestApproveSuffixesCollidingSlug(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeCaseStore()
	store.takenSlugs["my-cool-project|nl"] = true
	svc := newTestService(repo, &fakeTaxonomy{}, &fakeTaxonomy{}, store)
	sub := seedPending(repo, "sub-1")

	if _, err := svc.Approve(context.Background(), sub.ID); err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if len(store.created) != 1 || store.created[0].Slug != "my-cool-project-2" {
		t.Fatalf("expected suffixed slug, got %v", store.created)
	}
}

func TestApproveLostRaceDeletesCase(t *testing.T) {
	repo := newFakeRepo()
	repo.forceTransitionFail = true
	store := newFakeCaseStore()
	svc := newTestService(repo, &fakeTaxonomy{}, &fakeTaxonomy{}, store)
	sub := seedPending(repo, "sub-1")

	if _, err := svc.Approve(context.Background(), sub.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if len(store.created) != 1 || len(store.deleted) != 1 {
		t.Fatalf("expected the created case to be deleted, created=%d deleted=%d", len(store.created), len(store.deleted))
	}
	if store.deleted[0] != store.created[0].ID {
		t.Fatalf("deleted wrong case: %q", store.deleted[0])
	}
}

func TestReject(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeCaseStore()
	svc := newTestService(repo, &fakeTaxonomy{}, &fakeTaxonomy{}, store)
	sub := seedPending(repo, "sub-1")

	if err := svc.Reject(context.Background(), sub.ID); err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if repo.items[sub.ID].Status != StatusRejected {
		t.Fatalf("expected rejected, got %q", repo.items[sub.ID].Status)
	}
	if len(store.created) != 0 {
		t.Fatalf("reject must not create a case")
	}
	if err := svc.Reject(context.Background(), sub.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on repeat reject, got %v", err)
	}
}
