package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/cases"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/sanitize"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotConfigured = errors.New("ingest feed url not configured")

// CaseUpserter is the slice of the cases repository ingestion needs:
// drafts keyed by (slug, locale) that never clobber existing content.
type CaseUpserter interface {
	UpsertDraft(ctx context.Context, item cases.Case) (bool, error)
}

// FeedItem is one entry in the external showcase feed.
type FeedItem struct {
	Title     string   `json:"title"`
	OneLiner  string   `json:"one_liner"`
	Locale    string   `json:"locale"`
	Slug      string   `json:"slug"`
	TagSlugs  []string `json:"tags"`
	ToolSlugs []string `json:"tools"`
	Stack     []string `json:"stack"`
	Problem   string   `json:"problem"`
	Solution  string   `json:"solution"`
}

type Report struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type Service struct {
	feedURL    string
	httpClient *http.Client
	caseStore  CaseUpserter
	tags       taxonomy.Repository
	tools      taxonomy.Repository
	location   *time.Location
}

func NewService(feedURL string, caseStore CaseUpserter, tags, tools taxonomy.Repository, location *time.Location) *Service {
	return &Service{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		caseStore:  caseStore,
		tags:       tags,
		tools:      tools,
		location:   location,
	}
}

// Run pulls the feed and stores each entry as a draft case. Existing
// (slug, locale) pairs are skipped, so reruns are harmless.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if strings.TrimSpace(s.feedURL) == "" {
		return Report{}, ErrNotConfigured
	}

	items, err := s.fetch(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{Fetched: len(items)}
	for _, item := range items {
		created, err := s.store(ctx, item)
		if err != nil {
			return report, err
		}
		if created {
			report.Created++
		} else {
			report.Skipped++
		}
	}
	return report, nil
}

func (s *Service) fetch(ctx context.Context) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ingest create request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ingest fetch failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var items []FeedItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("ingest decode feed: %w", err)
	}
	return items, nil
}

func (s *Service) store(ctx context.Context, item FeedItem) (bool, error) {
	title := sanitize.Text(item.Title)
	slug := utils.Slugify(item.Slug)
	if slug == "" {
		slug = utils.Slugify(title)
	}
	if slug == "" || !cases.IsValidLocale(item.Locale) {
		return false, nil
	}

	tagIDs, err := s.ensureAll(ctx, s.tags, item.TagSlugs)
	if err != nil {
		return false, err
	}
	toolIDs, err := s.ensureAll(ctx, s.tools, item.ToolSlugs)
	if err != nil {
		return false, err
	}

	now := time.Now().In(s.location)
	draft := cases.Case{
		ID:        primitive.NewObjectID().Hex(),
		Slug:      slug,
		Title:     title,
		OneLiner:  sanitize.Text(item.OneLiner),
		Locale:    item.Locale,
		Status:    cases.StatusDraft,
		TagIDs:    tagIDs,
		ToolIDs:   toolIDs,
		Stack:     sanitize.Slice(item.Stack),
		Problem:   sanitize.Text(item.Problem),
		Solution:  sanitize.Text(item.Solution),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.caseStore.UpsertDraft(ctx, draft)
}

func (s *Service) ensureAll(ctx context.Context, repo taxonomy.Repository, raw []string) ([]string, error) {
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		slug := utils.Slugify(r)
		if slug == "" {
			continue
		}
		entity, err := repo.Ensure(ctx, slug, utils.Humanize(slug))
		if err != nil {
			return nil, err
		}
		ids = append(ids, entity.ID)
	}
	return ids, nil
}
