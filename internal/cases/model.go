package cases

import (
	"time"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/taxonomy"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	LocaleNL = "nl"
	LocaleEN = "en"
	LocaleES = "es"
)

var validStatuses = map[string]struct{}{
	StatusDraft:     {},
	StatusPublished: {},
}

var validLocales = map[string]struct{}{
	LocaleNL: {},
	LocaleEN: {},
	LocaleES: {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func IsValidLocale(value string) bool {
	_, ok := validLocales[value]
	return ok
}

type Case struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Slug          string    `bson:"slug" json:"slug"`
	Title         string    `bson:"title" json:"title"`
	OneLiner      string    `bson:"one_liner" json:"one_liner"`
	Locale        string    `bson:"locale" json:"locale"`
	Status        string    `bson:"status" json:"status"`
	TagIDs        []string  `bson:"tag_ids" json:"tag_ids,omitempty"`
	ToolIDs       []string  `bson:"tool_ids" json:"tool_ids,omitempty"`
	Stack         []string  `bson:"stack" json:"stack"`
	Problem       string    `bson:"problem,omitempty" json:"problem,omitempty"`
	Solution      string    `bson:"solution,omitempty" json:"solution,omitempty"`
	Learnings     string    `bson:"learnings,omitempty" json:"learnings,omitempty"`
	FeaturedImage string    `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
	BuilderID     string    `bson:"builder_id,omitempty" json:"builder_id,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// ResolvedCase is the public payload: tag/tool ids resolved to refs.
type ResolvedCase struct {
	Case
	Tags  []taxonomy.Ref `json:"tags"`
	Tools []taxonomy.Ref `json:"tools"`
}

// NewCase carries the fields a caller controls when creating a record.
type NewCase struct {
	Slug          string
	Title         string
	OneLiner      string
	Locale        string
	TagIDs        []string
	ToolIDs       []string
	Stack         []string
	Problem       string
	Solution      string
	Learnings     string
	FeaturedImage string
	BuilderID     string
}

type PublicListFilter struct {
	Locale   string
	TagSlug  string
	ToolSlug string
}
