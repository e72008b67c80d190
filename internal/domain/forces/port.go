package forces

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a party, element or media file does not exist.
var ErrNotFound = errors.New("forces: not found")

// Repository persists parties, elements and media file records.
type Repository interface {
	SaveParty(ctx context.Context, p *Party) error
	GetParty(ctx context.Context, id string) (*Party, error)
	ListParties(ctx context.Context) ([]*Party, error)
	DeleteParty(ctx context.Context, id string) error

	SaveElement(ctx context.Context, e *StrengthWeakness) error
	GetElement(ctx context.Context, id string) (*StrengthWeakness, error)
	ListElements(ctx context.Context, partyID string, elementType ElementType) ([]*StrengthWeakness, error)
	DeleteElement(ctx context.Context, id string) error
	RecentElements(ctx context.Context, limit int) ([]*StrengthWeakness, error)
	CountParties(ctx context.Context) (int, error)
	CountElements(ctx context.Context) (int, error)

	SaveMedia(ctx context.Context, m *MediaFile) error
	ListMedia(ctx context.Context, elementID string) ([]*MediaFile, error)
	DeleteMedia(ctx context.Context, id string) (*MediaFile, error)
}

// MediaStore holds media file payloads. Implementations return a URL the
// client can use to fetch the object back.
type MediaStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}
