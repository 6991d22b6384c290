package intakes

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeIntakeRepo struct {
	items map[string]ProblemIntake
}

func newFakeIntakeRepo() *fakeIntakeRepo {
	return &fakeIntakeRepo{items: make(map[string]ProblemIntake)}
}

func (f *fakeIntakeRepo) Create(_ context.Context, intake ProblemIntake) error {
	f.items[intake.ID] = intake
	return nil
}

func (f *fakeIntakeRepo) GetByID(_ context.Context, id string) (ProblemIntake, error) {
	intake, ok := f.items[id]
	if !ok {
		return ProblemIntake{}, mongo.ErrNoDocuments
	}
	return intake, nil
}

func (f *fakeIntakeRepo) List(_ context.Context, filter ListFilter, limit, offset int64) ([]ProblemIntake, error) {
	out := make([]ProblemIntake, 0)
	for _, intake := range f.items {
		if filter.Status == "" || intake.Status == filter.Status {
			out = append(out, intake)
		}
	}
	return out, nil
}

func (f *fakeIntakeRepo) Count(_ context.Context, filter ListFilter) (int64, error) {
	items, _ := f.List(context.Background(), filter, 0, 0)
	return int64(len(items)), nil
}

func (f *fakeIntakeRepo) TransitionStatus(_ context.Context, id, from string, set bson.M) (ProblemIntake, error) {
	intake, ok := f.items[id]
	if !ok || intake.Status != from {
		return ProblemIntake{}, mongo.ErrNoDocuments
	}
	if status, ok := set["status"].(string); ok {
		intake.Status = status
	}
	if notes, ok := set["internal_notes"].(string); ok {
		intake.InternalNotes = notes
	}
	if processedBy, ok := set["processed_by"].(string); ok {
		intake.ProcessedBy = processedBy
	}
	if updatedAt, ok := set["updated_at"].(time.Time); ok {
		intake.UpdatedAt = updatedAt
	}
	f.items[id] = intake
	return intake, nil
}

func (f *fakeIntakeRepo) SetPayloadCase(_ context.Context, id, caseID string, now time.Time) (bool, error) {
	intake, ok := f.items[id]
	if !ok {
		return false, nil
	}
	intake.PayloadCaseID = caseID
	intake.UpdatedAt = now
	f.items[id] = intake
	return true, nil
}

type fakeDraftStore struct {
	created    []cases.Case
	takenSlugs map[string]bool
	nextID     int
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{takenSlugs: make(map[string]bool)}
}

func (f *fakeDraftStore) CreateDraft(_ context.Context, req cases.NewCase) (cases.Case, error) {
	key := req.Slug + "|" + req.Locale
	if f.takenSlugs[key] {
		return cases.Case{}, cases.ErrSlugExists
	}
	f.takenSlugs[key] = true
	f.nextID++
	item := cases.Case{
		ID:     fmt.Sprintf("case-%d", f.nextID),
		Slug:   req.Slug,
		Title:  req.Title,
		Locale: req.Locale,
		Status: cases.StatusDraft,
	}
	f.created = append(f.created, item)
	return item, nil
}

func newIntakeService(repo *fakeIntakeRepo, store *fakeDraftStore) *Service {
	return NewService(repo, store, nil, "nl", time.UTC)
}

func seedIntake(repo *fakeIntakeRepo, id, status, language string) ProblemIntake {
	intake := ProblemIntake{
		ID:             id,
		Title:          "Invoices take forever",
		Problem:        "Manual invoicing eats a full day per week.",
		DesiredOutcome: "Automated invoicing flow.",
		Country:        "NL",
		Language:       language,
		Email:          "owner@example.com",
		Status:         status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	repo.items[id] = intake
	return intake
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusNew, StatusReviewing},
		{StatusNew, StatusAccepted},
		{StatusNew, StatusDeclined},
		{StatusReviewing, StatusAccepted},
		{StatusReviewing, StatusDeclined},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{StatusReviewing, StatusNew},
		{StatusAccepted, StatusDeclined},
		{StatusAccepted, StatusReviewing},
		{StatusDeclined, StatusNew},
		{StatusDeclined, StatusAccepted},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be denied", pair[0], pair[1])
		}
	}
}

func TestCreateStartsNew(t *testing.T) {
	repo := newFakeIntakeRepo()
	svc := newIntakeService(repo, newFakeDraftStore())

	intake, err := svc.Create(context.Background(), CreateRequest{
		Title:          "Invoices take forever",
		Problem:        "Manual invoicing.",
		DesiredOutcome: "Automation.",
		Country:        "NL",
		Language:       "nl",
		Email:          " Owner@Example.COM ",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if intake.Status != StatusNew {
		t.Fatalf("expected new, got %q", intake.Status)
	}
	if intake.Email != "owner@example.com" {
		t.Fatalf("expected lower-cased email, got %q", intake.Email)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeIntakeRepo()
	svc := newIntakeService(repo, newFakeDraftStore())
	intake := seedIntake(repo, "in-1", StatusNew, "nl")

	updated, err := svc.UpdateStatus(context.Background(), intake.ID, AdminStatusUpdateRequest{
		Status:        StatusReviewing,
		InternalNotes: "looks promising",
		ProcessedBy:   "admin@vibecodespace.dev",
	})
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != StatusReviewing {
		t.Fatalf("expected reviewing, got %q", updated.Status)
	}
	if updated.InternalNotes != "looks promising" {
		t.Fatalf("internal notes not recorded: %q", updated.InternalNotes)
	}

	if _, err := svc.UpdateStatus(context.Background(), intake.ID, AdminStatusUpdateRequest{Status: StatusNew}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for reviewing -> new, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), intake.ID, AdminStatusUpdateRequest{Status: "archived"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), intake.ID, AdminStatusUpdateRequest{Status: StatusAccepted}); err != nil {
		t.Fatalf("UpdateStatus to accepted error: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), intake.ID, AdminStatusUpdateRequest{Status: StatusDeclined}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("accepted must be terminal, got %v", err)
	}
}

func TestUpdateStatusUnknownIntake(t *testing.T) {
	svc := newIntakeService(newFakeIntakeRepo(), newFakeDraftStore())
	if _, err := svc.UpdateStatus(context.Background(), "missing", AdminStatusUpdateRequest{Status: StatusReviewing}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminListInvalidStatusFilter(t *testing.T) {
	svc := newIntakeService(newFakeIntakeRepo(), newFakeDraftStore())
	if _, _, err := svc.AdminList(context.Background(), ListFilter{Status: "archived"}, 20, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestPromoteCreatesDraft(t *testing.T) {
	repo := newFakeIntakeRepo()
	store := newFakeDraftStore()
	svc := newIntakeService(repo, store)
	intake := seedIntake(repo, "in-1", StatusReviewing, "es")

	created, err := svc.Promote(context.Background(), PromoteRequest{
		IntakeID:           intake.ID,
		Title:              "Automated Invoicing for SMEs",
		ProblemDescription: "Manual invoicing eats a full day per week.",
		DesiredOutcome:     "A weekly automated billing run.",
	})
	if err != nil {
		t.Fatalf("Promote error: %v", err)
	}
	if created.Slug != "automated-invoicing-for-smes" {
		t.Fatalf("unexpected slug %q", created.Slug)
	}
	if created.Status != cases.StatusDraft {
		t.Fatalf("expected draft, got %q", created.Status)
	}
	if created.Locale != "es" {
		t.Fatalf("expected intake language as locale, got %q", created.Locale)
	}

	stored := repo.items[intake.ID]
	if stored.PayloadCaseID != created.ID {
		t.Fatalf("payload case linkage not recorded: %q", stored.PayloadCaseID)
	}
	if stored.Status != StatusReviewing {
		t.Fatalf("promote must not move the intake status, got %q", stored.Status)
	}
}

func TestPromoteFallsBackToDefaultLocale(t *testing.T) {
	repo := newFakeIntakeRepo()
	store := newFakeDraftStore()
	svc := newIntakeService(repo, store)
	intake := seedIntake(repo, "in-1", StatusNew, "other")

	created, err := svc.Promote(context.Background(), PromoteRequest{
		IntakeID:           intake.ID,
		Title:              "Some Title",
		ProblemDescription: "Problem.",
		DesiredOutcome:     "Outcome.",
	})
	if err != nil {
		t.Fatalf("Promote error: %v", err)
	}
	if created.Locale != "nl" {
		t.Fatalf("expected default locale nl, got %q", created.Locale)
	}
}

func TestPromoteSuffixesCollidingSlug(t *testing.T) {
	repo := newFakeIntakeRepo()
	store := newFakeDraftStore()
	store.takenSlugs["some-title|nl"] = true
	svc := newIntakeService(repo, store)
	intake := seedIntake(repo, "in-1", StatusNew, "nl")

	created, err := svc.Promote(context.Background(), PromoteRequest{
		IntakeID:           intake.ID,
		Title:              "Some Title",
		ProblemDescription: "Problem.",
		DesiredOutcome:     "Outcome.",
	})
	if err != nil {
		t.Fatalf("Promote error: %v", err)
	}
	if created.Slug != "some-title-2" {
		t.Fatalf("expected suffixed slug, got %q", created.Slug)
	}
}

func TestPromoteValidation(t *testing.T) {
	repo := newFakeIntakeRepo()
	svc := newIntakeService(repo, newFakeDraftStore())
	intake := seedIntake(repo, "in-1", StatusNew, "nl")

	if _, err := svc.Promote(context.Background(), PromoteRequest{IntakeID: "missing", Title: "T", ProblemDescription: "P", DesiredOutcome: "O"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Promote(context.Background(), PromoteRequest{IntakeID: intake.ID, Title: "!!!", ProblemDescription: "P", DesiredOutcome: "O"}); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
}
