package analysis

import (
	"time"
)

// RequestID identifier type
type RequestID string

// ContentType enum
type ContentType string

const (
	ContentArticle     ContentType = "article"
	ContentSocialMedia ContentType = "social_media"
	ContentCriticism   ContentType = "criticism"
	ContentQuestion    ContentType = "question"
	ContentOther       ContentType = "other"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentArticle, ContentSocialMedia, ContentCriticism, ContentQuestion, ContentOther:
		return true
	}
	return false
}

// Request is one submitted piece of content. Immutable once created.
type Request struct {
	ID          RequestID   `json:"id"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	Source      string      `json:"source,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Result is the parsed analysis for exactly one Request. Immutable once
// created; replacement means deleting and resubmitting.
type Result struct {
	ID                 string    `json:"id"`
	RequestID          RequestID `json:"request_id"`
	Summary            string    `json:"summary"`
	PositivePoints     []string  `json:"positive_points"`
	NegativePoints     []string  `json:"negative_points"`
	SuggestedResponses []string  `json:"suggested_responses"`
	GeneratedAt        time.Time `json:"generated_at"`
}
