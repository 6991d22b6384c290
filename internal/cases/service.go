package cases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("case not found")
	ErrSlugExists    = errors.New("slug already exists for locale")
	ErrInvalidSlug   = errors.New("invalid slug")
	ErrInvalidLocale = errors.New("invalid locale")
)

type Service struct {
	repo     Repository
	tags     taxonomy.Repository
	tools    taxonomy.Repository
	location *time.Location
}

func NewService(repo Repository, tags, tools taxonomy.Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		tags:     tags,
		tools:    tools,
		location: location,
	}
}

// ListPublished returns published cases for a locale with resolved tag and
// tool refs. A filter slug that matches no known tag or tool yields an
// empty result, not an error; both filters combine conjunctively.
func (s *Service) ListPublished(ctx context.Context, filter PublicListFilter) ([]ResolvedCase, error) {
	if !IsValidLocale(filter.Locale) {
		return nil, ErrInvalidLocale
	}

	tagID, ok, err := s.filterID(ctx, s.tags, filter.TagSlug)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []ResolvedCase{}, nil
	}

	toolID, ok, err := s.filterID(ctx, s.tools, filter.ToolSlug)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []ResolvedCase{}, nil
	}

	items, err := s.repo.ListPublished(ctx, filter.Locale, tagID, toolID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, items)
}

// GetPublishedBySlug hides drafts: a draft record and a missing record are
// indistinguishable to the caller.
func (s *Service) GetPublishedBySlug(ctx context.Context, locale, slug string) (ResolvedCase, error) {
	if !IsValidLocale(locale) {
		return ResolvedCase{}, ErrInvalidLocale
	}

	item, err := s.repo.GetPublishedBySlug(ctx, locale, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ResolvedCase{}, ErrNotFound
		}
		return ResolvedCase{}, err
	}

	resolved, err := s.resolve(ctx, []Case{item})
	if err != nil {
		return ResolvedCase{}, err
	}
	return resolved[0], nil
}

func (s *Service) CreatePublished(ctx context.Context, req NewCase) (Case, error) {
	return s.create(ctx, req, StatusPublished)
}

func (s *Service) CreateDraft(ctx context.Context, req NewCase) (Case, error) {
	return s.create(ctx, req, StatusDraft)
}

func (s *Service) DeleteByID(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteByID(ctx, strings.TrimSpace(id))
}

func (s *Service) create(ctx context.Context, req NewCase, status string) (Case, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return Case{}, ErrInvalidSlug
	}
	if !IsValidLocale(req.Locale) {
		return Case{}, ErrInvalidLocale
	}

	now := time.Now().In(s.location)
	item := Case{
		ID:            primitive.NewObjectID().Hex(),
		Slug:          slug,
		Title:         strings.TrimSpace(req.Title),
		OneLiner:      strings.TrimSpace(req.OneLiner),
		Locale:        req.Locale,
		Status:        status,
		TagIDs:        req.TagIDs,
		ToolIDs:       req.ToolIDs,
		Stack:         req.Stack,
		Problem:       strings.TrimSpace(req.Problem),
		Solution:      strings.TrimSpace(req.Solution),
		Learnings:     strings.TrimSpace(req.Learnings),
		FeaturedImage: strings.TrimSpace(req.FeaturedImage),
		BuilderID:     strings.TrimSpace(req.BuilderID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Case{}, ErrSlugExists
		}
		return Case{}, err
	}
	return item, nil
}

// filterID resolves an optional filter slug to an entity id. The second
// return reports whether listing should proceed: an unknown slug means an
// empty result by contract.
func (s *Service) filterID(ctx context.Context, repo taxonomy.Repository, slug string) (string, bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", true, nil
	}
	entity, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entity.ID, true, nil
}

// resolve maps tag/tool id lists to refs, preserving list order and
// silently dropping ids that no longer resolve.
func (s *Service) resolve(ctx context.Context, items []Case) ([]ResolvedCase, error) {
	tagIDs := make([]string, 0)
	toolIDs := make([]string, 0)
	for _, item := range items {
		tagIDs = append(tagIDs, item.TagIDs...)
		toolIDs = append(toolIDs, item.ToolIDs...)
	}

	tagMap, err := s.refMap(ctx, s.tags, tagIDs)
	if err != nil {
		return nil, err
	}
	toolMap, err := s.refMap(ctx, s.tools, toolIDs)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedCase, 0, len(items))
	for _, item := range items {
		resolved = append(resolved, ResolvedCase{
			Case:  item,
			Tags:  pickRefs(item.TagIDs, tagMap),
			Tools: pickRefs(item.ToolIDs, toolMap),
		})
	}
	return resolved, nil
}

func (s *Service) refMap(ctx context.Context, repo taxonomy.Repository, ids []string) (map[string]taxonomy.Ref, error) {
	entities, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[string]taxonomy.Ref, len(entities))
	for _, e := range entities {
		m[e.ID] = taxonomy.Ref{Slug: e.Slug, Name: e.Name}
	}
	return m, nil
}

func pickRefs(ids []string, m map[string]taxonomy.Ref) []taxonomy.Ref {
	refs := make([]taxonomy.Ref, 0, len(ids))
	for _, id := range ids {
		if ref, ok := m[id]; ok {
			refs = append(refs, ref)
		}
	}
	return refs
}
