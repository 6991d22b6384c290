package newsletter

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

// Subscribe is idempotent: the email is lower-cased before storage and a
// repeat subscription reports already_subscribed instead of failing.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (SubscribeResult, error) {
	lead := NewsletterLead{
		ID:        primitive.NewObjectID().Hex(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Locale:    req.Locale,
		Source:    strings.TrimSpace(req.Source),
		CreatedAt: time.Now().In(s.location),
	}

	created, err := s.repo.Insert(ctx, lead)
	if err != nil {
		return SubscribeResult{}, err
	}
	return SubscribeResult{AlreadySubscribed: !created}, nil
}

func (s *Service) AdminList(ctx context.Context, limit, offset int64) ([]NewsletterLead, int64, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
