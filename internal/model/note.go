package model

import "strings"

type NoteStatus string

const (
	StatusHealthy   NoteStatus = "healthy"
	StatusUnhealthy NoteStatus = "unhealthy"
	StatusTreated   NoteStatus = "treated"
)

func (s NoteStatus) String() string { return string(s) }

func (s NoteStatus) Valid() bool {
	return s == StatusHealthy || s == StatusUnhealthy || s == StatusTreated
}

// ParseNoteStatus normalizes input. Returns (value, true) if valid;
// otherwise (zero, false).
func ParseNoteStatus(s string) (NoteStatus, bool) {
	st := NoteStatus(strings.ToLower(strings.TrimSpace(s)))
	if st.Valid() {
		return st, true
	}
	return "", false
}

// PlantNote is the DB entity persisted in the plant_notes table.
// CustomerName is copied from the customer at creation time and never
// re-synced afterwards; reads trade freshness for a join-free list path.
type PlantNote struct {
	ID           string     `db:"id" json:"id"`
	CustomerID   string     `db:"customer_id" json:"customer_id"`
	CustomerName string     `db:"customer_name" json:"customer_name"`
	PlantName    string     `db:"plant_name" json:"plant_name"`
	Condition    string     `db:"condition" json:"condition"`
	Treatment    string     `db:"recommended_treatment" json:"recommended_treatment"`
	Status       NoteStatus `db:"status" json:"status"`
	DateCreated  string     `db:"date_created" json:"date_created"`
	DateUpdated  string     `db:"date_updated" json:"date_updated"`

	Images []NoteImage `db:"-" json:"images"`
}

// NotePatch enumerates the mutable note fields for a partial update.
// Nil fields are left untouched; the patch is applied through one fixed
// UPDATE statement, never a text-built SET clause.
type NotePatch struct {
	PlantName *string
	Condition *string
	Treatment *string
	Status    *NoteStatus
}

// Empty reports whether the patch carries no recognized field.
func (p NotePatch) Empty() bool {
	return p.PlantName == nil && p.Condition == nil && p.Treatment == nil && p.Status == nil
}
