package intakes

import "time"

const (
	StatusNew       = "new"
	StatusReviewing = "reviewing"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"

	LanguageNL    = "nl"
	LanguageEN    = "en"
	LanguageES    = "es"
	LanguageOther = "other"
)

var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusReviewing: {},
	StatusAccepted:  {},
	StatusDeclined:  {},
}

// accepted and declined are terminal.
var allowedTransitions = map[string]map[string]struct{}{
	StatusNew: {
		StatusReviewing: {},
		StatusAccepted:  {},
		StatusDeclined:  {},
	},
	StatusReviewing: {
		StatusAccepted: {},
		StatusDeclined: {},
	},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func CanTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// ProblemIntake is a lead from the public "describe your problem" form.
// PayloadCaseID links to a Case created along the promotion path; the
// linkage is best-effort and not enforced against the status.
type ProblemIntake struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Title          string    `bson:"title" json:"title"`
	Problem        string    `bson:"problem" json:"problem"`
	DesiredOutcome string    `bson:"desired_outcome" json:"desired_outcome"`
	Country        string    `bson:"country" json:"country"`
	Language       string    `bson:"language" json:"language"`
	Email          string    `bson:"email" json:"email"`
	CompanySize    string    `bson:"company_size,omitempty" json:"company_size,omitempty"`
	BudgetRange    string    `bson:"budget_range,omitempty" json:"budget_range,omitempty"`
	Urgency        string    `bson:"urgency,omitempty" json:"urgency,omitempty"`
	InternalNotes  string    `bson:"internal_notes,omitempty" json:"internal_notes,omitempty"`
	ProcessedBy    string    `bson:"processed_by,omitempty" json:"processed_by,omitempty"`
	PayloadCaseID  string    `bson:"payload_case_id,omitempty" json:"payload_case_id,omitempty"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Title          string `json:"title" validate:"required,max=160"`
	Problem        string `json:"problem" validate:"required"`
	DesiredOutcome string `json:"desired_outcome" validate:"required"`
	Country        string `json:"country" validate:"required"`
	Language       string `json:"language" validate:"required,language"`
	Email          string `json:"email" validate:"required,email"`
	CompanySize    string `json:"company_size" validate:"omitempty,max=40"`
	BudgetRange    string `json:"budget_range" validate:"omitempty,max=40"`
	Urgency        string `json:"urgency" validate:"omitempty,max=40"`
}

type AdminStatusUpdateRequest struct {
	Status        string `json:"status" validate:"required,oneof=new reviewing accepted declined"`
	InternalNotes string `json:"internal_notes" validate:"omitempty,max=2000"`
	ProcessedBy   string `json:"processed_by" validate:"omitempty,max=120"`
}

// PromoteRequest is the admin-triggered intake-to-case boundary. All four
// fields are required non-empty.
type PromoteRequest struct {
	IntakeID           string `json:"intake_id" validate:"required"`
	Title              string `json:"title" validate:"required"`
	ProblemDescription string `json:"problem_description" validate:"required"`
	DesiredOutcome     string `json:"desired_outcome" validate:"required"`
}

type ListFilter struct {
	Status string
}
