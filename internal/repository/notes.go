package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/greenleaf/plant-notes/internal/model"
)

// NotesRepository defines persistence for the plant_notes table.
type NotesRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, n model.PlantNote) error
	List(ctx context.Context, customerID string, status model.NoteStatus) ([]model.PlantNote, error)
	GetByID(ctx context.Context, id string) (*model.PlantNote, error)
	ApplyPatch(ctx context.Context, id string, p model.NotePatch, updatedAt string) error
	Delete(ctx context.Context, tx *sqlx.Tx, id string) error
}

type NotesRepositoryImpl struct {
	db *sqlx.DB
}

func NewNotesRepository(db *sqlx.DB) *NotesRepositoryImpl {
	return &NotesRepositoryImpl{db: db}
}

var _ NotesRepository = (*NotesRepositoryImpl)(nil)

func (r *NotesRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

func (r *NotesRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, n model.PlantNote) error {
	const q = `
		INSERT INTO plant_notes
		    (id, customer_id, customer_name, plant_name, condition, recommended_treatment, status, date_created, date_updated)
		VALUES
		    (?,  ?,           ?,             ?,          ?,         ?,                     ?,      ?,            ?)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			n.ID, n.CustomerID, n.CustomerName, n.PlantName, n.Condition,
			n.Treatment, n.Status.String(), n.DateCreated, n.DateUpdated,
		)
		return err
	})
}

// List returns notes newest first. customerID and status are independent
// optional filters combined with AND when both are given.
func (r *NotesRepositoryImpl) List(ctx context.Context, customerID string, status model.NoteStatus) ([]model.PlantNote, error) {
	q := `
		SELECT id, customer_id, customer_name, plant_name, condition, recommended_treatment, status, date_created, date_updated
		FROM plant_notes
		WHERE 1 = 1
	`
	args := []any{}

	if customerID != "" {
		q += " AND customer_id = ?"
		args = append(args, customerID)
	}
	if status != "" {
		q += " AND status = ?"
		args = append(args, status.String())
	}

	q += " ORDER BY date_created DESC"

	notes := []model.PlantNote{}
	if err := r.db.SelectContext(ctx, &notes, q, args...); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NotesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.PlantNote, error) {
	var n model.PlantNote
	const q = `
		SELECT id, customer_id, customer_name, plant_name, condition, recommended_treatment, status, date_created, date_updated
		  FROM plant_notes
		 WHERE id = ? LIMIT 1
	`
	err := r.db.GetContext(ctx, &n, q, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ApplyPatch applies a partial update through one fixed statement: nil patch
// fields bind as NULL and COALESCE keeps the stored value. date_updated is
// always refreshed. Returns ErrNotFound when the id matches no row.
func (r *NotesRepositoryImpl) ApplyPatch(ctx context.Context, id string, p model.NotePatch, updatedAt string) error {
	const q = `
		UPDATE plant_notes
		   SET plant_name            = COALESCE(?, plant_name),
		       condition             = COALESCE(?, condition),
		       recommended_treatment = COALESCE(?, recommended_treatment),
		       status                = COALESCE(?, status),
		       date_updated          = ?
		 WHERE id = ?
	`
	var status *string
	if p.Status != nil {
		s := p.Status.String()
		status = &s
	}
	res, err := r.db.ExecContext(ctx, q, p.PlantName, p.Condition, p.Treatment, status, updatedAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the note row; image rows cascade via the foreign key.
// Returns ErrNotFound when the id matches no row.
func (r *NotesRepositoryImpl) Delete(ctx context.Context, tx *sqlx.Tx, id string) error {
	const q = `DELETE FROM plant_notes WHERE id = ?`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
