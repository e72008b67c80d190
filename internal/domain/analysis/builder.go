package analysis

import (
	"time"

	"github.com/google/uuid"
)

// BuildPair turns a raw completion response plus the originating submission
// into a Request/Result pair with fresh identities and timestamps. It always
// succeeds: total extraction failure degrades to empty fields, never an error.
// Persistence is the store's job, not the builder's.
func BuildPair(raw, content string, contentType ContentType, source string, now time.Time) (*Request, *Result) {
	req := &Request{
		ID:          RequestID(uuid.NewString()),
		Content:     content,
		ContentType: contentType,
		Source:      source,
		CreatedAt:   now,
	}
	res := &Result{
		ID:                 uuid.NewString(),
		RequestID:          req.ID,
		Summary:            ExtractSummary(raw),
		PositivePoints:     ExtractSection(raw, HeadingPositive),
		NegativePoints:     ExtractSection(raw, HeadingNegative),
		SuggestedResponses: ExtractSection(raw, HeadingResponses),
		GeneratedAt:        now,
	}
	return req, res
}
