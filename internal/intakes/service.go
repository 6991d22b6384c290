package intakes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/sanitize"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("intake not found")
	ErrInvalidState  = errors.New("intake status transition not allowed")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidTitle  = errors.New("title yields an empty slug")
)

const maxSlugAttempts = 5

// CaseStore is the slice of the cases service the promotion path needs.
type CaseStore interface {
	CreateDraft(ctx context.Context, req cases.NewCase) (cases.Case, error)
}

type Notifier interface {
	SendIntakeNotification(ctx context.Context, intake ProblemIntake) (string, error)
	SendIntakeConfirmation(ctx context.Context, intake ProblemIntake) (string, error)
}

type Service struct {
	repo          Repository
	caseStore     CaseStore
	notifier      Notifier
	defaultLocale string
	location      *time.Location
}

func NewService(repo Repository, caseStore CaseStore, notifier Notifier, defaultLocale string, location *time.Location) *Service {
	return &Service{
		repo:          repo,
		caseStore:     caseStore,
		notifier:      notifier,
		defaultLocale: defaultLocale,
		location:      location,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (ProblemIntake, error) {
	now := time.Now().In(s.location)
	intake := ProblemIntake{
		ID:             primitive.NewObjectID().Hex(),
		Title:          sanitize.Text(req.Title),
		Problem:        sanitize.Text(req.Problem),
		DesiredOutcome: sanitize.Text(req.DesiredOutcome),
		Country:        sanitize.Text(req.Country),
		Language:       req.Language,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		CompanySize:    strings.TrimSpace(req.CompanySize),
		BudgetRange:    strings.TrimSpace(req.BudgetRange),
		Urgency:        strings.TrimSpace(req.Urgency),
		Status:         StatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, intake); err != nil {
		return ProblemIntake{}, err
	}
	return intake, nil
}

func (s *Service) AdminList(ctx context.Context, filter ListFilter, limit, offset int64) ([]ProblemIntake, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) AdminGet(ctx context.Context, id string) (ProblemIntake, error) {
	return s.getByID(ctx, id)
}

// UpdateStatus enforces the lifecycle: new may move anywhere, reviewing may
// only resolve, accepted and declined are terminal.
func (s *Service) UpdateStatus(ctx context.Context, id string, req AdminStatusUpdateRequest) (ProblemIntake, error) {
	intake, err := s.getByID(ctx, id)
	if err != nil {
		return ProblemIntake{}, err
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !IsValidStatus(status) {
		return ProblemIntake{}, ErrInvalidStatus
	}
	if !CanTransition(intake.Status, status) {
		return ProblemIntake{}, ErrInvalidState
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().In(s.location),
	}
	if notes := sanitize.Text(req.InternalNotes); notes != "" {
		set["internal_notes"] = notes
	}
	if processedBy := strings.TrimSpace(req.ProcessedBy); processedBy != "" {
		set["processed_by"] = processedBy
	}

	updated, err := s.repo.TransitionStatus(ctx, intake.ID, intake.Status, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Status moved between read and update.
			return ProblemIntake{}, ErrInvalidState
		}
		return ProblemIntake{}, err
	}
	return updated, nil
}

// Promote creates a draft case directly from intake material, bypassing the
// submission workflow, and records the linkage on the intake best-effort.
// The intake status is deliberately left alone: acceptance remains a
// separate admin decision.
func (s *Service) Promote(ctx context.Context, req PromoteRequest) (cases.Case, error) {
	intake, err := s.getByID(ctx, req.IntakeID)
	if err != nil {
		return cases.Case{}, err
	}

	title := sanitize.Text(req.Title)
	slug := utils.Slugify(title)
	if slug == "" {
		return cases.Case{}, ErrInvalidTitle
	}

	draft := cases.NewCase{
		Title:    title,
		OneLiner: sanitize.Text(req.ProblemDescription),
		Locale:   s.caseLocale(intake.Language),
		Stack:    []string{},
		Problem:  sanitize.Text(req.ProblemDescription),
		Solution: sanitize.Text(req.DesiredOutcome),
	}

	created, err := s.createDraft(ctx, draft, slug)
	if err != nil {
		return cases.Case{}, err
	}

	if _, err := s.repo.SetPayloadCase(ctx, intake.ID, created.ID, time.Now().In(s.location)); err != nil {
		// The case exists either way; the linkage is not load-bearing.
		return created, nil
	}
	return created, nil
}

func (s *Service) NotifyNewIntake(ctx context.Context, intake ProblemIntake) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendIntakeNotification(ctx, intake)
	return err
}

func (s *Service) NotifyConfirmation(ctx context.Context, intake ProblemIntake) error {
	if s.notifier == nil {
		return nil
	}
	if strings.TrimSpace(intake.Email) == "" {
		return nil
	}
	_, err := s.notifier.SendIntakeConfirmation(ctx, intake)
	return err
}

func (s *Service) getByID(ctx context.Context, id string) (ProblemIntake, error) {
	intake, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ProblemIntake{}, ErrNotFound
		}
		return ProblemIntake{}, err
	}
	return intake, nil
}

// caseLocale maps the intake language onto a site locale; "other" has no
// translated variant and falls back to the site default.
func (s *Service) caseLocale(language string) string {
	if cases.IsValidLocale(language) {
		return language
	}
	return s.defaultLocale
}

func (s *Service) createDraft(ctx context.Context, draft cases.NewCase, slug string) (cases.Case, error) {
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		draft.Slug = slug
		if attempt > 1 {
			draft.Slug = fmt.Sprintf("%s-%d", slug, attempt)
		}
		created, err := s.caseStore.CreateDraft(ctx, draft)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, cases.ErrSlugExists) {
			return cases.Case{}, err
		}
	}
	return cases.Case{}, cases.ErrSlugExists
}
