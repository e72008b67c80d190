package forces

import "time"

// ElementType classifies a strength/weakness entry.
type ElementType string

const (
	ElementForce          ElementType = "force"
	ElementFaiblesse      ElementType = "faiblesse"
	ElementEnvironnement  ElementType = "environnement"
	ElementRenforcement   ElementType = "renforcement"
	ElementDeconstruction ElementType = "deconstruction"
	ElementReponse        ElementType = "reponse"
	ElementAutre          ElementType = "autre"
)

func (t ElementType) Valid() bool {
	switch t {
	case ElementForce, ElementFaiblesse, ElementEnvironnement,
		ElementRenforcement, ElementDeconstruction, ElementReponse, ElementAutre:
		return true
	}
	return false
}

// ElementTypes lists the accepted element type values, for API discovery.
func ElementTypes() []ElementType {
	return []ElementType{
		ElementForce, ElementFaiblesse, ElementEnvironnement,
		ElementRenforcement, ElementDeconstruction, ElementReponse, ElementAutre,
	}
}

// MediaType classifies an attached media file.
type MediaType string

const (
	MediaTexte MediaType = "texte"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaAutre MediaType = "autre"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTexte, MediaImage, MediaVideo, MediaAudio, MediaAutre:
		return true
	}
	return false
}

// MediaTypes lists the accepted media type values, for API discovery.
func MediaTypes() []MediaType {
	return []MediaType{MediaTexte, MediaImage, MediaVideo, MediaAudio, MediaAutre}
}

// Party is a political party tracked by the monitoring desk.
type Party struct {
	ID          string    `json:"id"`
	Nom         string    `json:"nom"`
	Sigle       string    `json:"sigle,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StrengthWeakness is one monitored element attached to a party. Field names
// stay in French to match the editorial workflow of the desk.
type StrengthWeakness struct {
	ID        string      `json:"id"`
	PartyID   string      `json:"party_id"`
	Type      ElementType `json:"type"`
	Nom       string      `json:"nom"`
	Contenu   string      `json:"contenu"`
	Resume    string      `json:"resume,omitempty"`
	Categorie string      `json:"categorie,omitempty"`
	Auteur    string      `json:"auteur,omitempty"`
	Source    string      `json:"source,omitempty"`
	Date      string      `json:"date,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// MediaFile is a stored attachment for a strength/weakness element.
// Importance ranges 1 (background) to 5 (lead evidence).
type MediaFile struct {
	ID         string    `json:"id"`
	ElementID  string    `json:"element_id"`
	Type       MediaType `json:"type"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	ObjectKey  string    `json:"-"`
	Importance int       `json:"importance"`
	CreatedAt  time.Time `json:"created_at"`
}

// DashboardSummary is the landing-page aggregate.
type DashboardSummary struct {
	TotalParties  int                `json:"total_parties"`
	TotalElements int                `json:"total_elements"`
	RecentItems   []StrengthWeakness `json:"recent_items"`
}
