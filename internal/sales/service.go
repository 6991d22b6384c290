package sales

import (
	"context"
	"strings"
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notifier interface {
	SendSalesLeadNotification(ctx context.Context, lead SalesLead) (string, error)
}

type Service struct {
	repo     Repository
	notifier Notifier
	location *time.Location
}

func NewService(repo Repository, notifier Notifier, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		location: location,
	}
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (SalesLead, error) {
	lead := SalesLead{
		ID:          primitive.NewObjectID().Hex(),
		Name:        sanitize.Text(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Message:     sanitize.Text(req.Message),
		Locale:      req.Locale,
		Company:     sanitize.Text(req.Company),
		CompanySize: strings.TrimSpace(req.CompanySize),
		Plan:        strings.TrimSpace(req.Plan),
		CreatedAt:   time.Now().In(s.location),
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return SalesLead{}, err
	}
	return lead, nil
}

func (s *Service) AdminList(ctx context.Context, limit, offset int64) ([]SalesLead, int64, error) {
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

func (s *Service) NotifyNewLead(ctx context.Context, lead SalesLead) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendSalesLeadNotification(ctx, lead)
	return err
}
