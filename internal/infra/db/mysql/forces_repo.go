package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/bkonan/veilleur/internal/domain/forces"
)

// ForcesRepository persists parties, elements and media records in MySQL.
//
// Tables:
//
//	political_parties(id, nom, sigle, description, created_at, updated_at)
//	strengths_weaknesses(id, party_id, type, nom, contenu, resume, categorie,
//	                     auteur, source, date, created_at, updated_at)
//	media_files(id, element_id, type, file_name, url, object_key, importance, created_at)
type ForcesRepository struct {
	db *sql.DB
}

func NewForcesRepository(db *sql.DB) *ForcesRepository {
	return &ForcesRepository{db: db}
}

func (r *ForcesRepository) SaveParty(ctx context.Context, p *domain.Party) error {
	const q = `
INSERT INTO political_parties (id, nom, sigle, description, created_at, updated_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 nom=VALUES(nom), sigle=VALUES(sigle), description=VALUES(description), updated_at=VALUES(updated_at);
`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Nom, p.Sigle, p.Description, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ForcesRepository) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	const q = `
SELECT id, nom, sigle, description, created_at, updated_at
FROM political_parties WHERE id=? LIMIT 1;
`
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
FROM political_parties ORDER BY created_at;
`
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
	// Elements and media cascade through the schema's foreign keys.
	_, err := r.db.ExecContext(ctx, `DELETE FROM political_parties WHERE id=?;`, id)
	return err
}

func (r *ForcesRepository) SaveElement(ctx context.Context, e *domain.StrengthWeakness) error {
	const q = `
INSERT INTO strengths_weaknesses
 (id, party_id, type, nom, contenu, resume, categorie, auteur, source, date, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 type=VALUES(type), nom=VALUES(nom), contenu=VALUES(contenu), resume=VALUES(resume),
 categorie=VALUES(categorie), auteur=VALUES(auteur), source=VALUES(source),
 date=VALUES(date), updated_at=VALUES(updated_at);
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.PartyID, e.Type, e.Nom, e.Contenu, e.Resume,
		e.Categorie, e.Auteur, e.Source, e.Date, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *ForcesRepository) GetElement(ctx context.Context, id string) (*domain.StrengthWeakness, error) {
	const q = elementColumns + ` WHERE id=? LIMIT 1;`
	e, err := scanElement(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return e, err
}

func (r *ForcesRepository) ListElements(ctx context.Context, partyID string, elementType domain.ElementType) ([]*domain.StrengthWeakness, error) {
	q := elementColumns + ` WHERE party_id=?`
	args := []any{partyID}
	if elementType != "" {
		q += ` AND type=?`
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM strengths_weaknesses WHERE id=?;`, id)
	return err
}

func (r *ForcesRepository) RecentElements(ctx context.Context, limit int) ([]*domain.StrengthWeakness, error) {
	if limit <= 0 {
		limit = 3
	}
	q := elementColumns + ` ORDER BY created_at DESC LIMIT ?;`
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
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 type=VALUES(type), file_name=VALUES(file_name), url=VALUES(url),
 object_key=VALUES(object_key), importance=VALUES(importance);
`
	_, err := r.db.ExecContext(ctx, q,
		m.ID, m.ElementID, m.Type, m.FileName, m.URL, m.ObjectKey, m.Importance, m.CreatedAt,
	)
	return err
}

func (r *ForcesRepository) ListMedia(ctx context.Context, elementID string) ([]*domain.MediaFile, error) {
	const q = `
SELECT id, element_id, type, file_name, url, object_key, importance, created_at
FROM media_files WHERE element_id=? ORDER BY importance DESC, created_at;
`
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
FROM media_files WHERE id=? LIMIT 1;
`
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
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id=?;`, id); err != nil {
		return nil, fmt.Errorf("delete media %s: %w", id, err)
	}
	return &m, nil
}

const elementColumns = `
SELECT id, party_id, type, nom, contenu, resume, categorie, auteur, source, date, created_at, updated_at
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
