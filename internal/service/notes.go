package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/greenleaf/plant-notes/internal/imgproc"
	"github.com/greenleaf/plant-notes/internal/metrics"
	"github.com/greenleaf/plant-notes/internal/model"
	"github.com/greenleaf/plant-notes/internal/repository"
	"github.com/greenleaf/plant-notes/internal/storage"
	"github.com/greenleaf/plant-notes/internal/util"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrImageNotFound    = errors.New("image not found")
)

// CreateNote carries the validated input for a new note. Status must already
// be a valid enum value by the time it reaches the service.
type CreateNote struct {
	CustomerID string
	PlantName  string
	Condition  string
	Treatment  string
	Status     model.NoteStatus
}

// Notes owns the note lifecycle: row writes, attachment files, and the
// best-effort coupling between the two. Database rows for one operation go
// through a single transaction; file writes are deliberately outside it and
// cleaned up best effort on failure.
type Notes struct {
	db        *sqlx.DB
	customers repository.CustomersRepository
	notes     repository.NotesRepository
	images    repository.ImagesRepository
	store     *storage.Store
	proc      *imgproc.Processor
	log       *zap.Logger
}

func NewNotes(
	db *sqlx.DB,
	customersRepo repository.CustomersRepository,
	notesRepo repository.NotesRepository,
	imagesRepo repository.ImagesRepository,
	store *storage.Store,
	proc *imgproc.Processor,
	log *zap.Logger,
) *Notes {
	return &Notes{
		db:        db,
		customers: customersRepo,
		notes:     notesRepo,
		images:    imagesRepo,
		store:     store,
		proc:      proc,
		log:       log,
	}
}

func now() string { return time.Now().Format(time.RFC3339) }

// Create inserts the note and, when files are given, stores the allowed ones
// and their rows in the same transaction. If anything fails after the note
// row insert, the transaction rolls back and the note's upload directory is
// removed. Disallowed extensions are skipped silently.
func (s *Notes) Create(ctx context.Context, in CreateNote, files []*multipart.FileHeader) (*model.PlantNote, error) {
	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	ts := now()
	note := model.PlantNote{
		ID:           util.New(),
		CustomerID:   in.CustomerID,
		CustomerName: customer.Name, // frozen at creation time
		PlantName:    in.PlantName,
		Condition:    in.Condition,
		Treatment:    in.Treatment,
		Status:       in.Status,
		DateCreated:  ts,
		DateUpdated:  ts,
		Images:       []model.NoteImage{},
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.notes.Insert(ctx, tx, note); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	saved, err := s.saveFiles(ctx, tx, &note, files)
	if err != nil {
		s.store.RemoveNoteDir(note.CustomerID, note.ID)
		return nil, err
	}
	note.Images = saved

	if err := tx.Commit(); err != nil {
		s.store.RemoveNoteDir(note.CustomerID, note.ID)
		return nil, err
	}

	metrics.NotesTotal.WithLabelValues("created").Inc()
	return &note, nil
}

// Get returns one note with its images, or ErrNoteNotFound.
func (s *Notes) Get(ctx context.Context, id string) (*model.PlantNote, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	if err := s.attachImages(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// List returns notes filtered by the optional customerID and status, newest
// first, each enriched with its images.
func (s *Notes) List(ctx context.Context, customerID string, status model.NoteStatus) ([]model.PlantNote, error) {
	notes, err := s.notes.List(ctx, customerID, status)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if err := s.attachImages(ctx, &notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

// Update applies a partial patch and returns the full updated note.
func (s *Notes) Update(ctx context.Context, id string, patch model.NotePatch) (*model.PlantNote, error) {
	err := s.notes.ApplyPatch(ctx, id, patch, now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	metrics.NotesTotal.WithLabelValues("updated").Inc()
	return s.Get(ctx, id)
}

// Delete removes the note row (image rows cascade) and then attempts removal
// of the note's upload directory. Directory removal is best effort and never
// fails the request.
func (s *Notes) Delete(ctx context.Context, id string) error {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}

	if err := s.notes.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	s.store.RemoveNoteDir(note.CustomerID, note.ID)
	metrics.NotesTotal.WithLabelValues("deleted").Inc()
	return nil
}

// AddImages attaches uploads to an existing note. On failure only the files
// saved by this call are removed; earlier attachments stay put.
func (s *Notes) AddImages(ctx context.Context, noteID string, files []*multipart.FileHeader) ([]model.NoteImage, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	saved, err := s.saveFiles(ctx, tx, note, files)
	if err != nil {
		for _, img := range saved {
			s.store.Remove(img.FilePath)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		for _, img := range saved {
			s.store.Remove(img.FilePath)
		}
		return nil, err
	}
	return saved, nil
}

// DeleteImage removes one image row and attempts removal of its file.
func (s *Notes) DeleteImage(ctx context.Context, imageID string) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img == nil {
		return ErrImageNotFound
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	s.store.Remove(img.FilePath)
	return nil
}

// ResolveUpload maps a serving request onto a stored image. The filename must
// belong to the given note and the note to the given customer, otherwise the
// request misses; that is the whole authorization story for uploads.
func (s *Notes) ResolveUpload(ctx context.Context, customerID, noteID, filename string) (*model.NoteImage, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.CustomerID != customerID {
		return nil, ErrImageNotFound
	}
	img, err := s.images.GetByNoteAndFilename(ctx, noteID, filename)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}
	return img, nil
}

func (s *Notes) attachImages(ctx context.Context, note *model.PlantNote) error {
	images, err := s.images.ListByNote(ctx, note.ID)
	if err != nil {
		return err
	}
	for i := range images {
		images[i].FillURL(note.CustomerID)
	}
	note.Images = images
	return nil
}

// saveFiles stores each allowed upload on disk, resamples it, and inserts its
// row in tx. Resample failures are logged and the original file kept.
func (s *Notes) saveFiles(ctx context.Context, tx *sqlx.Tx, note *model.PlantNote, files []*multipart.FileHeader) ([]model.NoteImage, error) {
	saved := []model.NoteImage{}
	for _, fh := range files {
		if !s.store.Allowed(fh.Filename) {
			metrics.UploadsTotal.WithLabelValues("skipped").Inc()
			s.log.Debug("skipping disallowed upload",
				zap.String("note_id", note.ID),
				zap.String("filename", fh.Filename))
			continue
		}

		src, err := fh.Open()
		if err != nil {
			return saved, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		sf, err := s.store.Save(note.CustomerID, note.ID, fh.Filename, src)
		_ = src.Close()
		if err != nil {
			return saved, fmt.Errorf("save upload %q: %w", fh.Filename, err)
		}

		size := sf.Size
		if err := s.proc.Resample(sf.Path); err != nil {
			metrics.UploadsTotal.WithLabelValues("resample_failed").Inc()
			s.log.Warn("resample failed, keeping original",
				zap.String("path", sf.Path), zap.Error(err))
		} else if fi, err := os.Stat(sf.Path); err == nil {
			size = fi.Size() // re-encode changes the byte size
		}

		img := model.NoteImage{
			ID:           util.New(),
			NoteID:       note.ID,
			Filename:     sf.Filename,
			OriginalName: fh.Filename,
			FilePath:     sf.Path,
			FileSize:     size,
			DateUploaded: now(),
		}
		if err := s.images.Insert(ctx, tx, img); err != nil {
			return saved, fmt.Errorf("insert image row: %w", err)
		}

		img.FillURL(note.CustomerID)
		saved = append(saved, img)
		metrics.UploadsTotal.WithLabelValues("saved").Inc()
	}
	return saved, nil
}
