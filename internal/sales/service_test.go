package sales

import (
	"context"
	"testing"
	"time"
)

type fakeSalesRepo struct {
	leads []SalesLead
}

func (f *fakeSalesRepo) Create(_ context.Context, lead SalesLead) error {
	f.leads = append(f.leads, lead)
	return nil
}

func (f *fakeSalesRepo) List(_ context.Context, limit, offset int64) ([]SalesLead, error) {
	return f.leads, nil
}

func (f *fakeSalesRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.leads)), nil
}

func TestSubmitIsAppendOnly(t *testing.T) {
	repo := &fakeSalesRepo{}
	svc := NewService(repo, nil, time.UTC)

	req := SubmitRequest{
		Name:    "Jane Builder",
		Email:   " Jane@Example.COM ",
		Message: "We need a <script>alert(1)</script> custom build.",
		Locale:  "en",
	}
	lead, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if lead.Email != "jane@example.com" {
		t.Fatalf("expected lower-cased email, got %q", lead.Email)
	}
	if lead.Message == req.Message {
		t.Fatalf("markup must be stripped from the message")
	}

	// A duplicate submission is a second record, not an error.
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("repeat Submit error: %v", err)
	}
	if len(repo.leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(repo.leads))
	}
}

func TestNotifyNewLeadWithoutNotifier(t *testing.T) {
	svc := NewService(&fakeSalesRepo{}, nil, time.UTC)
	if err := svc.NotifyNewLead(context.Background(), SalesLead{}); err != nil {
		t.Fatalf("nil notifier must be a no-op, got %v", err)
	}
}
