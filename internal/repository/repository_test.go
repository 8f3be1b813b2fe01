package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/greenleaf/plant-notes/internal/db"
	"github.com/greenleaf/plant-notes/internal/model"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.NewSQLiteConnection(path, db.SQLiteOpts{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.EnsureSchema(conn); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func insertCustomer(t *testing.T, repo CustomersRepository, id, name string) {
	t.Helper()
	err := repo.Insert(context.Background(), model.Customer{
		ID: id, Name: name, DateCreated: "2026-01-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("insert customer %q: %v", name, err)
	}
}

func newNote(id, customerID, customerName string, status model.NoteStatus, created string) model.PlantNote {
	return model.PlantNote{
		ID:           id,
		CustomerID:   customerID,
		CustomerName: customerName,
		PlantName:    "Monstera",
		Condition:    "Leaf spots",
		Treatment:    "Neem oil weekly",
		Status:       status,
		DateCreated:  created,
		DateUpdated:  created,
	}
}

func TestCustomersRepository_DuplicateName(t *testing.T) {
	conn := testDB(t)
	repo := NewCustomersRepository(conn)
	ctx := context.Background()

	insertCustomer(t, repo, "c1", "Alice")

	err := repo.Insert(ctx, model.Customer{ID: "c2", Name: "Alice", DateCreated: "2026-01-02T10:00:00Z"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate insert error = %v, want ErrDuplicateName", err)
	}

	// the conflicting row must not exist
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 customer after duplicate rejection, got %d", len(all))
	}
}

func TestCustomersRepository_ListOrdered(t *testing.T) {
	conn := testDB(t)
	repo := NewCustomersRepository(conn)

	insertCustomer(t, repo, "c1", "Zoe")
	insertCustomer(t, repo, "c2", "Alice")
	insertCustomer(t, repo, "c3", "Mia")

	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Alice", "Mia", "Zoe"}
	if len(all) != len(want) {
		t.Fatalf("expected %d customers, got %d", len(want), len(all))
	}
	for i, name := range want {
		if all[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, all[i].Name, name)
		}
	}
}

func TestCustomersRepository_GetByIDMissing(t *testing.T) {
	conn := testDB(t)
	repo := NewCustomersRepository(conn)

	c, err := repo.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil for missing customer, got %+v", c)
	}
}

func TestNotesRepository_ListFiltersAndOrder(t *testing.T) {
	conn := testDB(t)
	customers := NewCustomersRepository(conn)
	notes := NewNotesRepository(conn)
	ctx := context.Background()

	insertCustomer(t, customers, "c1", "Alice")
	insertCustomer(t, customers, "c2", "Bob")

	fixtures := []model.PlantNote{
		newNote("n1", "c1", "Alice", model.StatusHealthy, "2026-01-01T10:00:00Z"),
		newNote("n2", "c1", "Alice", model.StatusUnhealthy, "2026-01-02T10:00:00Z"),
		newNote("n3", "c2", "Bob", model.StatusHealthy, "2026-01-03T10:00:00Z"),
	}
	for _, n := range fixtures {
		if err := notes.Insert(ctx, nil, n); err != nil {
			t.Fatalf("insert note %s: %v", n.ID, err)
		}
	}

	t.Run("unfiltered newest first", func(t *testing.T) {
		got, err := notes.List(ctx, "", "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		wantIDs := []string{"n3", "n2", "n1"}
		if len(got) != len(wantIDs) {
			t.Fatalf("expected %d notes, got %d", len(wantIDs), len(got))
		}
		for i, id := range wantIDs {
			if got[i].ID != id {
				t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("customer filter", func(t *testing.T) {
		got, err := notes.List(ctx, "c1", "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 notes for c1, got %d", len(got))
		}
	})

	t.Run("both filters intersect", func(t *testing.T) {
		got, err := notes.List(ctx, "c1", model.StatusHealthy)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].ID != "n1" {
			t.Fatalf("expected only n1, got %+v", got)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := notes.List(ctx, "", model.StatusHealthy)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 healthy notes, got %d", len(got))
		}
	})
}

func TestNotesRepository_ApplyPatch(t *testing.T) {
	conn := testDB(t)
	customers := NewCustomersRepository(conn)
	notes := NewNotesRepository(conn)
	ctx := context.Background()

	insertCustomer(t, customers, "c1", "Alice")
	if err := notes.Insert(ctx, nil, newNote("n1", "c1", "Alice", model.StatusHealthy, "2026-01-01T10:00:00Z")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	status := model.StatusTreated
	patch := model.NotePatch{Status: &status}
	if err := notes.ApplyPatch(ctx, "n1", patch, "2026-02-01T10:00:00Z"); err != nil {
		t.Fatalf("apply patch: %v", err)
	}

	got, err := notes.GetByID(ctx, "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.StatusTreated {
		t.Errorf("status = %s, want treated", got.Status)
	}
	// untouched fields keep their stored values
	if got.PlantName != "Monstera" || got.Condition != "Leaf spots" {
		t.Errorf("patch touched fields it should not have: %+v", got)
	}
	if got.DateUpdated != "2026-02-01T10:00:00Z" {
		t.Errorf("date_updated = %s, want refreshed", got.DateUpdated)
	}
	if got.DateCreated != "2026-01-01T10:00:00Z" {
		t.Errorf("date_created changed: %s", got.DateCreated)
	}
}

func TestNotesRepository_ApplyPatchMissing(t *testing.T) {
	conn := testDB(t)
	notes := NewNotesRepository(conn)

	name := "Fern"
	err := notes.ApplyPatch(context.Background(), "nope", model.NotePatch{PlantName: &name}, "2026-02-01T10:00:00Z")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestNotesRepository_DeleteCascadesImages(t *testing.T) {
	conn := testDB(t)
	customers := NewCustomersRepository(conn)
	notes := NewNotesRepository(conn)
	images := NewImagesRepository(conn)
	ctx := context.Background()

	insertCustomer(t, customers, "c1", "Alice")
	if err := notes.Insert(ctx, nil, newNote("n1", "c1", "Alice", model.StatusHealthy, "2026-01-01T10:00:00Z")); err != nil {
		t.Fatalf("insert note: %v", err)
	}
	img := model.NoteImage{
		ID: "i1", NoteID: "n1", Filename: "abc.png", OriginalName: "leaf.png",
		FilePath: "/tmp/abc.png", FileSize: 10, DateUploaded: "2026-01-01T11:00:00Z",
	}
	if err := images.Insert(ctx, nil, img); err != nil {
		t.Fatalf("insert image: %v", err)
	}

	if err := notes.Delete(ctx, nil, "n1"); err != nil {
		t.Fatalf("delete note: %v", err)
	}

	gone, err := images.GetByID(ctx, "i1")
	if err != nil {
		t.Fatalf("get image: %v", err)
	}
	if gone != nil {
		t.Errorf("image row survived note deletion: %+v", gone)
	}

	if err := notes.Delete(ctx, nil, "n1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestImagesRepository_ScopeAndOrder(t *testing.T) {
	conn := testDB(t)
	customers := NewCustomersRepository(conn)
	notes := NewNotesRepository(conn)
	images := NewImagesRepository(conn)
	ctx := context.Background()

	insertCustomer(t, customers, "c1", "Alice")
	for _, id := range []string{"n1", "n2"} {
		if err := notes.Insert(ctx, nil, newNote(id, "c1", "Alice", model.StatusHealthy, "2026-01-01T10:00:00Z")); err != nil {
			t.Fatalf("insert note %s: %v", id, err)
		}
	}

	rows := []model.NoteImage{
		{ID: "i2", NoteID: "n1", Filename: "bbb.jpg", OriginalName: "b.jpg", FilePath: "/tmp/bbb.jpg", FileSize: 2, DateUploaded: "2026-01-01T12:00:00Z"},
		{ID: "i1", NoteID: "n1", Filename: "aaa.jpg", OriginalName: "a.jpg", FilePath: "/tmp/aaa.jpg", FileSize: 1, DateUploaded: "2026-01-01T11:00:00Z"},
		{ID: "i3", NoteID: "n2", Filename: "ccc.jpg", OriginalName: "c.jpg", FilePath: "/tmp/ccc.jpg", FileSize: 3, DateUploaded: "2026-01-01T13:00:00Z"},
	}
	for _, img := range rows {
		if err := images.Insert(ctx, nil, img); err != nil {
			t.Fatalf("insert image %s: %v", img.ID, err)
		}
	}

	list, err := images.ListByNote(ctx, "n1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "i1" || list[1].ID != "i2" {
		t.Fatalf("expected [i1 i2] upload-time ascending, got %+v", list)
	}

	// filename resolved only within its note's scope
	hit, err := images.GetByNoteAndFilename(ctx, "n1", "aaa.jpg")
	if err != nil || hit == nil {
		t.Fatalf("expected hit in scope, got %+v err %v", hit, err)
	}
	miss, err := images.GetByNoteAndFilename(ctx, "n2", "aaa.jpg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if miss != nil {
		t.Errorf("filename resolved outside its note scope: %+v", miss)
	}
}
