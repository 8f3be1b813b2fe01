package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/greenleaf/plant-notes/internal/model"
)

// ImagesRepository defines persistence for the note_images table.
type ImagesRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, img model.NoteImage) error
	ListByNote(ctx context.Context, noteID string) ([]model.NoteImage, error)
	GetByID(ctx context.Context, id string) (*model.NoteImage, error)
	GetByNoteAndFilename(ctx context.Context, noteID, filename string) (*model.NoteImage, error)
	Delete(ctx context.Context, id string) error
}

type ImagesRepositoryImpl struct {
	db *sqlx.DB
}

func NewImagesRepository(db *sqlx.DB) *ImagesRepositoryImpl {
	return &ImagesRepositoryImpl{db: db}
}

var _ ImagesRepository = (*ImagesRepositoryImpl)(nil)

func (r *ImagesRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
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

func (r *ImagesRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, img model.NoteImage) error {
	const q = `
		INSERT INTO note_images (id, note_id, filename, original_filename, file_path, file_size, date_uploaded)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			img.ID, img.NoteID, img.Filename, img.OriginalName, img.FilePath, img.FileSize, img.DateUploaded,
		)
		return err
	})
}

// ListByNote returns a note's images ordered by upload time ascending.
func (r *ImagesRepositoryImpl) ListByNote(ctx context.Context, noteID string) ([]model.NoteImage, error) {
	images := []model.NoteImage{}
	const q = `
		SELECT id, note_id, filename, original_filename, file_path, file_size, date_uploaded
		  FROM note_images
		 WHERE note_id = ?
		 ORDER BY date_uploaded ASC
	`
	if err := r.db.SelectContext(ctx, &images, q, noteID); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *ImagesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.NoteImage, error) {
	var img model.NoteImage
	const q = `
		SELECT id, note_id, filename, original_filename, file_path, file_size, date_uploaded
		  FROM note_images
		 WHERE id = ? LIMIT 1
	`
	err := r.db.GetContext(ctx, &img, q, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// GetByNoteAndFilename resolves a filename scoped to one note. Serving goes
// through this lookup so path guessing outside the note's scope misses.
func (r *ImagesRepositoryImpl) GetByNoteAndFilename(ctx context.Context, noteID, filename string) (*model.NoteImage, error) {
	var img model.NoteImage
	const q = `
		SELECT id, note_id, filename, original_filename, file_path, file_size, date_uploaded
		  FROM note_images
		 WHERE note_id = ? AND filename = ? LIMIT 1
	`
	err := r.db.GetContext(ctx, &img, q, noteID, filename)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// Delete removes one image row. Returns ErrNotFound when the id matches no row.
func (r *ImagesRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM note_images WHERE id = ?`, id)
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
