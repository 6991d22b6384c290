package sales

import "time"

// SalesLead is append-only: no dedup, no status. Follow-up happens outside
// this system once the lead is recorded.
type SalesLead struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Message     string    `bson:"message" json:"message"`
	Locale      string    `bson:"locale" json:"locale"`
	Company     string    `bson:"company,omitempty" json:"company,omitempty"`
	CompanySize string    `bson:"company_size,omitempty" json:"company_size,omitempty"`
	Plan        string    `bson:"plan,omitempty" json:"plan,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type SubmitRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Message     string `json:"message" validate:"required"`
	Locale      string `json:"locale" validate:"required,locale"`
	Company     string `json:"company" validate:"omitempty,max=120"`
	CompanySize string `json:"company_size" validate:"omitempty,max=40"`
	Plan        string `json:"plan" validate:"omitempty,max=40"`
}
