package taxonomy

import "time"

// Entity is a (slug, name) reference record. Tags and tools share the
// shape and live in separate collections.
type Entity struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Slug      string    `bson:"slug" json:"slug"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Ref is the resolved form embedded in public case payloads.
type Ref struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}
