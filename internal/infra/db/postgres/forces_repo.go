package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/bkonan/veilleur/internal/domain/forces"
)

// ForcesRepository is the Postgres variant of the forces repository. Same
// schema as the MySQL one; "date" is quoted since it is a reserved word here.
type ForcesRepository struct {
	db *sql.DB
}

func NewForcesRepository(db *sql.DB) *ForcesRepository {
	return &ForcesRepository{db: db}
}

func (r *ForcesRepository) SaveParty(ctx context.Context, p *domain.Party) error {
	const q = `
INSERT INTO political_parties (id, nom, sigle, description, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
 nom = EXCLUDED.nom,
 sigle = EXCLUDED.sigle,
 description = EXCLUDED.description,
 updated_at = EXCLUDED.updated_at;`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Nom, p.Sigle, p.Description, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ForcesRepository) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	const q = `
SELECT id, nom, sigle, description, created_at, updated_at
FROM political_parties WHERE id=$1 LIMIT 1;`
	var p domain.Party
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Nom, &p.Sigle, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ForcesRepository) ListParties(ctx context.Context) ([]*domain.Party, error) {
	const q = `
SELECT id, nom, sigle, description, created_at, updated_at
FROM political_parties ORDER BY created_at;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Party
	for rows.Next() {
		var p domain.Party
		if err := rows.Scan(&p.ID, &p.Nom, &p.Sigle, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *ForcesRepository) DeleteParty(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM political_parties WHERE id=$1;`, id)
	return err
}

func (r *ForcesRepository) SaveElement(ctx context.Context, e *domain.StrengthWeakness) error {
	const q = `
INSERT INTO strengths_weaknesses
 (id, party_id, type, nom, contenu, resume, categorie, auteur, source, "date", created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
 type = EXCLUDED.type,
 nom = EXCLUDED.nom,
 contenu = EXCLUDED.contenu,
 resume = EXCLUDED.resume,
 categorie = EXCLUDED.categorie,
 auteur = EXCLUDED.auteur,
 source = EXCLUDED.source,
 "date" = EXCLUDED."date",
 updated_at = EXCLUDED.updated_at;`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.PartyID, e.Type, e.Nom, e.Contenu, e.Resume,
		e.Categorie, e.Auteur, e.Source, e.Date, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *ForcesRepository) GetElement(ctx context.Context, id string) (*domain.StrengthWeakness, error) {
	q := elementColumns + ` WHERE id=$1 LIMIT 1;`
	e, err := scanElement(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return e, err
}

func (r *ForcesRepository) ListElements(ctx context.Context, partyID string, elementType domain.ElementType) ([]*domain.StrengthWeakness, error) {
	q := elementColumns + ` WHERE party_id=$1`
	args := []any{partyID}
	if elementType != "" {
		q += ` AND type=$2`
		args = append(args, elementType)
	}
	q += ` ORDER BY created_at;`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectElements(rows)
}

func (r *ForcesRepository) DeleteElement(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM strengths_weaknesses WHERE id=$1;`, id)
	return err
}

func (r *ForcesRepository) RecentElements(ctx context.Context, limit int) ([]*domain.StrengthWeakness, error) {
	if limit <= 0 {
		limit = 3
	}
	q := elementColumns + ` ORDER BY created_at DESC LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectElements(rows)
}

func (r *ForcesRepository) CountParties(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM political_parties;`).Scan(&n)
	return n, err
}

func (r *ForcesRepository) CountElements(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strengths_weaknesses;`).Scan(&n)
	return n, err
}

func (r *ForcesRepository) SaveMedia(ctx context.Context, m *domain.MediaFile) error {
	const q = `
INSERT INTO media_files (id, element_id, type, file_name, url, object_key, importance, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
 type = EXCLUDED.type,
 file_name = EXCLUDED.file_name,
 url = EXCLUDED.url,
 object_key = EXCLUDED.object_key,
 importance = EXCLUDED.importance;`
	_, err := r.db.ExecContext(ctx, q,
		m.ID, m.ElementID, m.Type, m.FileName, m.URL, m.ObjectKey, m.Importance, m.CreatedAt,
	)
	return err
}

func (r *ForcesRepository) ListMedia(ctx context.Context, elementID string) ([]*domain.MediaFile, error) {
	const q = `
SELECT id, element_id, type, file_name, url, object_key, importance, created_at
FROM media_files WHERE element_id=$1 ORDER BY importance DESC, created_at;`
	rows, err := r.db.QueryContext(ctx, q, elementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MediaFile
	for rows.Next() {
		var m domain.MediaFile
		if err := rows.Scan(&m.ID, &m.ElementID, &m.Type, &m.FileName, &m.URL, &m.ObjectKey, &m.Importance, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *ForcesRepository) DeleteMedia(ctx context.Context, id string) (*domain.MediaFile, error) {
	const q = `
SELECT id, element_id, type, file_name, url, object_key, importance, created_at
FROM media_files WHERE id=$1 LIMIT 1;`
	var m domain.MediaFile
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.ElementID, &m.Type, &m.FileName, &m.URL, &m.ObjectKey, &m.Importance, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id=$1;`, id); err != nil {
		return nil, fmt.Errorf("delete media %s: %w", id, err)
	}
	return &m, nil
}

const elementColumns = `
SELECT id, party_id, type, nom, contenu, resume, categorie, auteur, source, "date", created_at, updated_at
FROM strengths_weaknesses`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElement(row rowScanner) (*domain.StrengthWeakness, error) {
	var e domain.StrengthWeakness
	if err := row.Scan(
		&e.ID, &e.PartyID, &e.Type, &e.Nom, &e.Contenu, &e.Resume,
		&e.Categorie, &e.Auteur, &e.Source, &e.Date, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func collectElements(rows *sql.Rows) ([]*domain.StrengthWeakness, error) {
	var out []*domain.StrengthWeakness
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
