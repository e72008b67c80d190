package forces

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/bkonan/veilleur/internal/application"
	"github.com/bkonan/veilleur/internal/domain/analysis"
	domain "github.com/bkonan/veilleur/internal/domain/forces"
)

const recentItems = 3

// Service implements the forces/faiblesses use cases: party CRUD, monitored
// elements, media attachments and the dashboard aggregate.
type Service struct {
	Repo  domain.Repository
	Media domain.MediaStore
	Clock application.Clock
}

func NewService(repo domain.Repository, media domain.MediaStore, clock application.Clock) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{Repo: repo, Media: media, Clock: clock}
}

func (s *Service) CreateParty(ctx context.Context, nom, sigle, description string) (*domain.Party, error) {
	if nom == "" {
		return nil, &analysis.ValidationError{Field: "nom", Reason: "must not be empty"}
	}
	now := s.Clock.Now()
	p := &domain.Party{
		ID:          uuid.NewString(),
		Nom:         nom,
		Sigle:       sigle,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.SaveParty(ctx, p); err != nil {
		return nil, fmt.Errorf("save party: %w", err)
	}
	return p, nil
}

func (s *Service) UpdateParty(ctx context.Context, id, nom, sigle, description string) (*domain.Party, error) {
	p, err := s.Repo.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	if nom != "" {
		p.Nom = nom
	}
	if sigle != "" {
		p.Sigle = sigle
	}
	if description != "" {
		p.Description = description
	}
	p.UpdatedAt = s.Clock.Now()
	if err := s.Repo.SaveParty(ctx, p); err != nil {
		return nil, fmt.Errorf("save party: %w", err)
	}
	return p, nil
}

func (s *Service) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	return s.Repo.GetParty(ctx, id)
}

func (s *Service) ListParties(ctx context.Context) ([]*domain.Party, error) {
	return s.Repo.ListParties(ctx)
}

func (s *Service) DeleteParty(ctx context.Context, id string) error {
	return s.Repo.DeleteParty(ctx, id)
}

// CreateElement records a strength/weakness entry for a party.
func (s *Service) CreateElement(ctx context.Context, e *domain.StrengthWeakness) (*domain.StrengthWeakness, error) {
	if e.PartyID == "" {
		return nil, &analysis.ValidationError{Field: "party_id", Reason: "must not be empty"}
	}
	if e.Nom == "" {
		return nil, &analysis.ValidationError{Field: "nom", Reason: "must not be empty"}
	}
	if !e.Type.Valid() {
		return nil, &analysis.ValidationError{Field: "type", Reason: "unknown value " + string(e.Type)}
	}
	if _, err := s.Repo.GetParty(ctx, e.PartyID); err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := s.Repo.SaveElement(ctx, e); err != nil {
		return nil, fmt.Errorf("save element: %w", err)
	}
	return e, nil
}

// ListElements returns the elements of a party, optionally narrowed by type.
func (s *Service) ListElements(ctx context.Context, partyID string, elementType domain.ElementType) ([]*domain.StrengthWeakness, error) {
	if elementType != "" && !elementType.Valid() {
		return nil, &analysis.ValidationError{Field: "type", Reason: "unknown value " + string(elementType)}
	}
	return s.Repo.ListElements(ctx, partyID, elementType)
}

func (s *Service) GetElement(ctx context.Context, id string) (*domain.StrengthWeakness, error) {
	return s.Repo.GetElement(ctx, id)
}

func (s *Service) DeleteElement(ctx context.Context, id string) error {
	return s.Repo.DeleteElement(ctx, id)
}

// AddMedia uploads the payload to the media store and records the attachment.
// Importance outside 1..5 is rejected.
func (s *Service) AddMedia(ctx context.Context, elementID string, mediaType domain.MediaType, fileName string, importance int, r io.Reader, size int64, contentType string) (*domain.MediaFile, error) {
	if !mediaType.Valid() {
		return nil, &analysis.ValidationError{Field: "type", Reason: "unknown value " + string(mediaType)}
	}
	if importance < 1 || importance > 5 {
		return nil, &analysis.ValidationError{Field: "importance", Reason: "must be between 1 and 5"}
	}
	if _, err := s.Repo.GetElement(ctx, elementID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	key := fmt.Sprintf("%s/%s-%s", elementID, id, fileName)
	url, err := s.Media.Put(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}

	m := &domain.MediaFile{
		ID:         id,
		ElementID:  elementID,
		Type:       mediaType,
		FileName:   fileName,
		URL:        url,
		ObjectKey:  key,
		Importance: importance,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Repo.SaveMedia(ctx, m); err != nil {
		_ = s.Media.Remove(ctx, key)
		return nil, fmt.Errorf("save media record: %w", err)
	}
	return m, nil
}

func (s *Service) ListMedia(ctx context.Context, elementID string) ([]*domain.MediaFile, error) {
	return s.Repo.ListMedia(ctx, elementID)
}

// RemoveMedia deletes the record and then the stored object. The record is
// authoritative: a failed object removal is logged, never surfaced.
func (s *Service) RemoveMedia(ctx context.Context, id string) error {
	m, err := s.Repo.DeleteMedia(ctx, id)
	if err != nil {
		return err
	}
	if m.ObjectKey != "" {
		if err := s.Media.Remove(ctx, m.ObjectKey); err != nil {
			log.Printf("remove media object %s: %v", m.ObjectKey, err)
		}
	}
	return nil
}

// DashboardSummary aggregates counts and the most recent elements.
func (s *Service) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	parties, err := s.Repo.CountParties(ctx)
	if err != nil {
		return nil, err
	}
	elements, err := s.Repo.CountElements(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.RecentElements(ctx, recentItems)
	if err != nil {
		return nil, err
	}
	summary := &domain.DashboardSummary{
		TotalParties:  parties,
		TotalElements: elements,
		RecentItems:   make([]domain.StrengthWeakness, 0, len(recent)),
	}
	for _, e := range recent {
		summary.RecentItems = append(summary.RecentItems, *e)
	}
	return summary, nil
}
