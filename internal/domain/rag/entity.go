package rag

import "time"

// Document is one indexed unit of the knowledge base. Metadata keys are free
// form but the service always sets doc_type, source_type and indexed_at.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TypeOption is a selectable value/label pair for search filters.
type TypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DocumentTypes lists the doc_type metadata values available for filtering.
func DocumentTypes() []TypeOption {
	return []TypeOption{
		{Value: "", Label: "Tous les types"},
		{Value: "edls", Label: "EDLS"},
		{Value: "forces", Label: "Forces & Faiblesses"},
		{Value: "standard", Label: "Documents standard"},
	}
}

// SourceTypes lists the source_type metadata values available for filtering.
func SourceTypes() []TypeOption {
	return []TypeOption{
		{Value: "", Label: "Toutes les sources"},
		{Value: "internal", Label: "Documents internes"},
		{Value: "external", Label: "Documents externes"},
	}
}

// SearchFilter narrows a similarity search. Zero values mean no constraint.
// Date bounds apply to the indexed_at metadata timestamp.
type SearchFilter struct {
	DocumentType string
	SourceType   string
	DateFrom     time.Time
	DateTo       time.Time
}

// Match is one similarity-search hit. Distance is 1 - cosine similarity, so
// smaller is closer.
type Match struct {
	Document Document `json:"document"`
	Distance float32  `json:"distance"`
}

// Answer is a generated response grounded on retrieved documents.
type Answer struct {
	Question  string  `json:"question"`
	Response  string  `json:"response"`
	Sources   []Match `json:"sources"`
	ModelUsed string  `json:"model_used"`
}
