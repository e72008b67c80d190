package responses

import "time"

// ResponseType selects the output format of a generated communication.
type ResponseType string

const (
	TypeTalkingPoint     ResponseType = "talking_point"
	TypeTweet            ResponseType = "tweet"
	TypeDetailedResponse ResponseType = "detailed_response"
	TypeReport           ResponseType = "report"
)

func (t ResponseType) Valid() bool {
	switch t {
	case TypeTalkingPoint, TypeTweet, TypeDetailedResponse, TypeReport:
		return true
	}
	return false
}

// Tone selects the register of a generated communication.
type Tone string

const (
	ToneFactual    Tone = "factual"
	TonePersuasive Tone = "persuasive"
	ToneDefensive  Tone = "defensive"
	ToneAssertive  Tone = "assertive"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneFactual, TonePersuasive, ToneDefensive, ToneAssertive:
		return true
	}
	return false
}

// Request describes a response-generation job anchored to a prior analysis.
type Request struct {
	ID                     string       `json:"id"`
	AnalysisID             string       `json:"analysis_id"`
	SelectedPoints         []string     `json:"selected_points"`
	ResponseType           ResponseType `json:"response_type"`
	Tone                   Tone         `json:"tone"`
	AdditionalInstructions string       `json:"additional_instructions,omitempty"`
	CreatedAt              time.Time    `json:"created_at"`
}

// Generated is the produced communication.
type Generated struct {
	ID        string       `json:"id"`
	RequestID string       `json:"request_id"`
	Content   string       `json:"content"`
	Format    ResponseType `json:"format"`
	CreatedAt time.Time    `json:"created_at"`
}
