package newsletter

import "time"

// NewsletterLead is keyed by lower-cased email; subscribing twice is a
// no-op, never a duplicate and never an error.
type NewsletterLead struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Locale    string    `bson:"locale" json:"locale"`
	Source    string    `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type SubscribeRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Locale string `json:"locale" validate:"required,locale"`
	Source string `json:"source" validate:"omitempty,max=60"`
}

type SubscribeResult struct {
	AlreadySubscribed bool `json:"already_subscribed"`
}
