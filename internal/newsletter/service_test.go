package newsletter

import (
	"context"
	"testing"
	"time"
)

type fakeLeadRepo struct {
	leads []NewsletterLead
}

func (f *fakeLeadRepo) Insert(_ context.Context, lead NewsletterLead) (bool, error) {
	for _, existing := range f.leads {
		if existing.Email == lead.Email {
			return false, nil
		}
	}
	f.leads = append(f.leads, lead)
	return true, nil
}

func (f *fakeLeadRepo) List(_ context.Context, limit, offset int64) ([]NewsletterLead, error) {
	return f.leads, nil
}

func (f *fakeLeadRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.leads)), nil
}

func TestSubscribeIdempotent(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := NewService(repo, time.UTC)

	res, err := svc.Subscribe(context.Background(), SubscribeRequest{Email: "Foo@Bar.com", Locale: "nl"})
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}
	if res.AlreadySubscribed {
		t.Fatalf("first subscription must not report already_subscribed")
	}

	res, err = svc.Subscribe(context.Background(), SubscribeRequest{Email: "foo@bar.com", Locale: "en"})
	if err != nil {
		t.Fatalf("repeat Subscribe error: %v", err)
	}
	if !res.AlreadySubscribed {
		t.Fatalf("repeat subscription must report already_subscribed")
	}

	if len(repo.leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(repo.leads))
	}
	if repo.leads[0].Email != "foo@bar.com" {
		t.Fatalf("expected lower-cased email, got %q", repo.leads[0].Email)
	}
	if repo.leads[0].Locale != "nl" {
		t.Fatalf("original locale must survive a repeat subscription, got %q", repo.leads[0].Locale)
	}
}
