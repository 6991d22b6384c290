package submissions

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var validStatuses = map[string]struct{}{
	StatusPending:  {},
	StatusApproved: {},
	StatusRejected: {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

// CaseSubmission is a user-proposed showcase entry awaiting moderation.
// The pending status is the only non-terminal one: approve and reject are
// one-directional and final.
type CaseSubmission struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Title          string    `bson:"title" json:"title"`
	OneLiner       string    `bson:"one_liner" json:"one_liner"`
	Locale         string    `bson:"locale" json:"locale"`
	TagSlugs       []string  `bson:"tag_slugs" json:"tag_slugs"`
	ToolSlugs      []string  `bson:"tool_slugs" json:"tool_slugs"`
	StackText      string    `bson:"stack_text" json:"stack_text"`
	DemoURL        string    `bson:"demo_url,omitempty" json:"demo_url,omitempty"`
	RepoURL        string    `bson:"repo_url,omitempty" json:"repo_url,omitempty"`
	Email          string    `bson:"email" json:"email"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status         string    `bson:"status" json:"status"`
	ApprovedCaseID string    `bson:"approved_case_id,omitempty" json:"approved_case_id,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Title     string   `json:"title" validate:"required,max=160"`
	OneLiner  string   `json:"one_liner" validate:"required,max=280"`
	Locale    string   `json:"locale" validate:"required,locale"`
	TagSlugs  []string `json:"tag_slugs" validate:"omitempty,max=10,dive,slug"`
	ToolSlugs []string `json:"tool_slugs" validate:"omitempty,max=10,dive,slug"`
	StackText string   `json:"stack" validate:"required"`
	DemoURL   string   `json:"demo_url" validate:"omitempty,url"`
	RepoURL   string   `json:"repo_url" validate:"omitempty,url"`
	Email     string   `json:"email" validate:"required,email"`
	Notes     string   `json:"notes" validate:"omitempty,max=2000"`
}
