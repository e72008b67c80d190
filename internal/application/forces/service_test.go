package forces

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bkonan/veilleur/internal/domain/analysis"
	domain "github.com/bkonan/veilleur/internal/domain/forces"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type memRepo struct {
	parties  map[string]*domain.Party
	elements map[string]*domain.StrengthWeakness
	order    []string
	media    map[string]*domain.MediaFile
}

func newMemRepo() *memRepo {
	return &memRepo{
		parties:  make(map[string]*domain.Party),
		elements: make(map[string]*domain.StrengthWeakness),
		media:    make(map[string]*domain.MediaFile),
	}
}

func (r *memRepo) SaveParty(ctx context.Context, p *domain.Party) error {
	r.parties[p.ID] = p
	return nil
}

func (r *memRepo) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	p, ok := r.parties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *memRepo) ListParties(ctx context.Context) ([]*domain.Party, error) {
	out := make([]*domain.Party, 0, len(r.parties))
	for _, p := range r.parties {
		out = append(out, p)
	}
	return out, nil
}

func (r *memRepo) DeleteParty(ctx context.Context, id string) error {
	delete(r.parties, id)
	return nil
}

func (r *memRepo) SaveElement(ctx context.Context, e *domain.StrengthWeakness) error {
	if _, ok := r.elements[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	r.elements[e.ID] = e
	return nil
}

func (r *memRepo) GetElement(ctx context.Context, id string) (*domain.StrengthWeakness, error) {
	e, ok := r.elements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (r *memRepo) ListElements(ctx context.Context, partyID string, elementType domain.ElementType) ([]*domain.StrengthWeakness, error) {
	var out []*domain.StrengthWeakness
	for _, id := range r.order {
		e := r.elements[id]
		if e == nil || e.PartyID != partyID {
			continue
		}
		if elementType != "" && e.Type != elementType {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memRepo) DeleteElement(ctx context.Context, id string) error {
	delete(r.elements, id)
	return nil
}

func (r *memRepo) RecentElements(ctx context.Context, limit int) ([]*domain.StrengthWeakness, error) {
	var out []*domain.StrengthWeakness
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		if e := r.elements[r.order[i]]; e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepo) CountParties(ctx context.Context) (int, error) { return len(r.parties), nil }

func (r *memRepo) CountElements(ctx context.Context) (int, error) { return len(r.elements), nil }

func (r *memRepo) SaveMedia(ctx context.Context, m *domain.MediaFile) error {
	r.media[m.ID] = m
	return nil
}

func (r *memRepo) ListMedia(ctx context.Context, elementID string) ([]*domain.MediaFile, error) {
	var out []*domain.MediaFile
	for _, m := range r.media {
		if m.ElementID == elementID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteMedia(ctx context.Context, id string) (*domain.MediaFile, error) {
	m, ok := r.media[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.media, id)
	return m, nil
}

type memStore struct {
	objects   map[string][]byte
	removed   []string
	removeErr error
}

func newMemStore() *memStore { return &memStore{objects: make(map[string][]byte)} }

func (s *memStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[key] = b
	return "http://minio.local/media/" + key, nil
}

func (s *memStore) Remove(ctx context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func newTestService(repo domain.Repository, media domain.MediaStore) *Service {
	return NewService(repo, media, fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)})
}

func TestPartyCRUD(t *testing.T) {
	svc := newTestService(newMemRepo(), newMemStore())
	ctx := context.Background()

	if _, err := svc.CreateParty(ctx, "", "", ""); err == nil {
		t.Fatal("empty nom accepted")
	}

	p, err := svc.CreateParty(ctx, "Rassemblement", "RHDP", "parti au pouvoir")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.UpdateParty(ctx, p.ID, "", "RHDP-CI", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Nom != "Rassemblement" || updated.Sigle != "RHDP-CI" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	if err := svc.DeleteParty(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetParty(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateElementChecks(t *testing.T) {
	svc := newTestService(newMemRepo(), newMemStore())
	ctx := context.Background()

	_, err := svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: "missing", Nom: "n", Type: domain.ElementForce})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing party, got %v", err)
	}

	p, _ := svc.CreateParty(ctx, "PDCI", "", "")
	_, err = svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: p.ID, Nom: "n", Type: domain.ElementType("bizarre")})
	var verr *analysis.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	e, err := svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: p.ID, Nom: "implantation rurale", Type: domain.ElementForce, Contenu: "réseau de militants"})
	if err != nil {
		t.Fatalf("create element: %v", err)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatal("element identity not assigned")
	}
}

func TestListElementsFilter(t *testing.T) {
	svc := newTestService(newMemRepo(), newMemStore())
	ctx := context.Background()
	p, _ := svc.CreateParty(ctx, "RHDP", "", "")

	svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: p.ID, Nom: "a", Type: domain.ElementForce})
	svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: p.ID, Nom: "b", Type: domain.ElementFaiblesse})

	forcesOnly, err := svc.ListElements(ctx, p.ID, domain.ElementForce)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(forcesOnly) != 1 || forcesOnly[0].Nom != "a" {
		t.Fatalf("filter wrong: %+v", forcesOnly)
	}
	all, _ := svc.ListElements(ctx, p.ID, "")
	if len(all) != 2 {
		t.Fatalf("len(all) = %d", len(all))
	}
}

func TestMediaLifecycle(t *testing.T) {
	repo := newMemRepo()
	store := newMemStore()
	svc := newTestService(repo, store)
	ctx := context.Background()

	p, _ := svc.CreateParty(ctx, "RHDP", "", "")
	e, _ := svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: p.ID, Nom: "meeting", Type: domain.ElementForce})

	if _, err := svc.AddMedia(ctx, e.ID, domain.MediaImage, "photo.jpg", 9, bytes.NewReader(nil), 0, "image/jpeg"); err == nil {
		t.Fatal("importance 9 accepted")
	}

	m, err := svc.AddMedia(ctx, e.ID, domain.MediaImage, "photo.jpg", 4, bytes.NewReader([]byte("jpeg")), 4, "image/jpeg")
	if err != nil {
		t.Fatalf("add media: %v", err)
	}
	if m.URL == "" || m.ObjectKey == "" {
		t.Fatalf("media not stored: %+v", m)
	}
	if _, ok := store.objects[m.ObjectKey]; !ok {
		t.Fatal("object missing from store")
	}

	if err := svc.RemoveMedia(ctx, m.ID); err != nil {
		t.Fatalf("remove media: %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != m.ObjectKey {
		t.Fatal("stored object not removed")
	}
}

func TestRemoveMediaSurvivesStoreFailure(t *testing.T) {
	repo := newMemRepo()
	store := newMemStore()
	svc := newTestService(repo, store)
	ctx := context.Background()

	p, _ := svc.CreateParty(ctx, "RHDP", "", "")
	e, _ := svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: p.ID, Nom: "meeting", Type: domain.ElementForce})
	m, err := svc.AddMedia(ctx, e.ID, domain.MediaImage, "photo.jpg", 2, bytes.NewReader([]byte("jpeg")), 4, "image/jpeg")
	if err != nil {
		t.Fatalf("add media: %v", err)
	}

	// The record deletion is authoritative even when the object store fails.
	store.removeErr = errors.New("minio unreachable")
	if err := svc.RemoveMedia(ctx, m.ID); err != nil {
		t.Fatalf("remove media: %v", err)
	}
	media, _ := svc.ListMedia(ctx, e.ID)
	if len(media) != 0 {
		t.Fatalf("record survived: %+v", media)
	}
}

func TestDashboardSummary(t *testing.T) {
	svc := newTestService(newMemRepo(), newMemStore())
	ctx := context.Background()
	p, _ := svc.CreateParty(ctx, "RHDP", "", "")
	for _, nom := range []string{"a", "b", "c", "d"} {
		svc.CreateElement(ctx, &domain.StrengthWeakness{PartyID: p.ID, Nom: nom, Type: domain.ElementForce})
	}

	sum, err := svc.DashboardSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalParties != 1 || sum.TotalElements != 4 {
		t.Fatalf("totals = %d/%d", sum.TotalParties, sum.TotalElements)
	}
	if len(sum.RecentItems) != 3 || sum.RecentItems[0].Nom != "d" {
		t.Fatalf("recent = %+v", sum.RecentItems)
	}
}
