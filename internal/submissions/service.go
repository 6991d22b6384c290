package submissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/sanitize"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("submission not found")
	ErrInvalidState = errors.New("submission is not pending")
	ErrInvalidTitle = errors.New("title yields an empty slug")
)

// maxSlugAttempts bounds the collision suffix loop on approval.
const maxSlugAttempts = 5

// CaseStore is the slice of the cases service the moderation workflow
// needs: publish on approval, delete as CAS compensation.
type CaseStore interface {
	CreatePublished(ctx context.Context, req cases.NewCase) (cases.Case, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo      Repository
	tags      taxonomy.Repository
	tools     taxonomy.Repository
	caseStore CaseStore
	location  *time.Location
}

func NewService(repo Repository, tags, tools taxonomy.Repository, caseStore CaseStore, location *time.Location) *Service {
	return &Service{
		repo:      repo,
		tags:      tags,
		tools:     tools,
		caseStore: caseStore,
		location:  location,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (CaseSubmission, error) {
	now := time.Now().In(s.location)
	sub := CaseSubmission{
		ID:        primitive.NewObjectID().Hex(),
		Title:     sanitize.Text(req.Title),
		OneLiner:  sanitize.Text(req.OneLiner),
		Locale:    req.Locale,
		TagSlugs:  normalizeSlugs(req.TagSlugs),
		ToolSlugs: normalizeSlugs(req.ToolSlugs),
		StackText: sanitize.Text(req.StackText),
		DemoURL:   strings.TrimSpace(req.DemoURL),
		RepoURL:   strings.TrimSpace(req.RepoURL),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Notes:     sanitize.Text(req.Notes),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return CaseSubmission{}, err
	}
	return sub, nil
}

func (s *Service) ListPending(ctx context.Context) ([]CaseSubmission, error) {
	return s.repo.ListPending(ctx)
}

// Approve publishes a pending submission. Tag and tool slugs are resolved
// through idempotent ensure-by-slug, so a retried approval after a partial
// failure finds the already-created entities instead of duplicating them.
// The final status flip is a compare-and-set on pending; losing it deletes
// the case created in this call.
func (s *Service) Approve(ctx context.Context, id string) (string, error) {
	sub, err := s.getByID(ctx, id)
	if err != nil {
		return "", err
	}
	if sub.Status != StatusPending {
		return "", ErrInvalidState
	}

	tagIDs, err := s.ensureAll(ctx, s.tags, sub.TagSlugs)
	if err != nil {
		return "", err
	}
	toolIDs, err := s.ensureAll(ctx, s.tools, sub.ToolSlugs)
	if err != nil {
		return "", err
	}

	slug := utils.Slugify(sub.Title)
	if slug == "" {
		return "", ErrInvalidTitle
	}

	created, err := s.createCase(ctx, sub, slug, tagIDs, toolIDs)
	if err != nil {
		return "", err
	}

	ok, err := s.repo.TransitionStatus(ctx, sub.ID, StatusPending, StatusApproved, created.ID, time.Now().In(s.location))
	if err != nil {
		return "", err
	}
	if !ok {
		// Lost the race or the submission was resolved meanwhile; the case
		// from this call must not survive.
		_, _ = s.caseStore.DeleteByID(ctx, created.ID)
		return "", ErrInvalidState
	}

	return created.ID, nil
}

func (s *Service) Reject(ctx context.Context, id string) error {
	sub, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status != StatusPending {
		return ErrInvalidState
	}

	ok, err := s.repo.TransitionStatus(ctx, sub.ID, StatusPending, StatusRejected, "", time.Now().In(s.location))
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	return nil
}

func (s *Service) getByID(ctx context.Context, id string) (CaseSubmission, error) {
	sub, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseSubmission{}, ErrNotFound
		}
		return CaseSubmission{}, err
	}
	return sub, nil
}

// ensureAll resolves slugs to entity ids in input order, creating missing
// entities with a humanized display name.
func (s *Service) ensureAll(ctx context.Context, repo taxonomy.Repository, slugs []string) ([]string, error) {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		entity, err := repo.Ensure(ctx, slug, utils.Humanize(slug))
		if err != nil {
			return nil, err
		}
		ids = append(ids, entity.ID)
	}
	return ids, nil
}

// createCase inserts the published case, suffixing the slug on collision
// with an existing (slug, locale) pair.
func (s *Service) createCase(ctx context.Context, sub CaseSubmission, slug string, tagIDs, toolIDs []string) (cases.Case, error) {
	req := cases.NewCase{
		Title:    sub.Title,
		OneLiner: sub.OneLiner,
		Locale:   sub.Locale,
		TagIDs:   tagIDs,
		ToolIDs:  toolIDs,
		Stack:    splitStack(sub.StackText),
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		req.Slug = slug
		if attempt > 1 {
			req.Slug = fmt.Sprintf("%s-%d", slug, attempt)
		}
		created, err := s.caseStore.CreatePublished(ctx, req)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, cases.ErrSlugExists) {
			return cases.Case{}, err
		}
	}
	return cases.Case{}, cases.ErrSlugExists
}

func normalizeSlugs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if slug := utils.Slugify(r); slug != "" {
			out = append(out, slug)
		}
	}
	return out
}

func splitStack(stackText string) []string {
	parts := strings.Split(stackText, ",")
	stack := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			stack = append(stack, p)
		}
	}
	return stack
}
