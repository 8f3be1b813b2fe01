package model

// NoteImage is the DB entity persisted in the note_images table.
// Filename is system-generated and unique; OriginalName is the untrusted
// user-supplied name kept only as display metadata.
type NoteImage struct {
	ID           string `db:"id" json:"id"`
	NoteID       string `db:"note_id" json:"note_id"`
	Filename     string `db:"filename" json:"filename"`
	OriginalName string `db:"original_filename" json:"original_filename"`
	FilePath     string `db:"file_path" json:"-"`
	FileSize     int64  `db:"file_size" json:"file_size"`
	DateUploaded string `db:"date_uploaded" json:"date_uploaded"`

	// URL is the serving path under /uploads, filled in before serialization.
	URL string `db:"-" json:"url"`
}

// FillURL sets the serving path for the image. The path is derived from the
// owning note's customer, never from the original filename.
func (i *NoteImage) FillURL(customerID string) {
	i.URL = "/uploads/" + customerID + "/" + i.NoteID + "/" + i.Filename
}
