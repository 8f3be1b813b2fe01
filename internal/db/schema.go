package db

// Schema creates the three tables. Note and image rows cascade on delete of
// their parent; status is a closed enum enforced with CHECK.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    email TEXT,
    phone TEXT,
    address TEXT,
    date_created TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plant_notes (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    customer_name TEXT NOT NULL,
    plant_name TEXT NOT NULL,
    condition TEXT NOT NULL,
    recommended_treatment TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('healthy', 'unhealthy', 'treated')),
    date_created TEXT NOT NULL,
    date_updated TEXT NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS note_images (
    id TEXT PRIMARY KEY,
    note_id TEXT NOT NULL,
    filename TEXT NOT NULL UNIQUE,
    original_filename TEXT NOT NULL,
    file_path TEXT NOT NULL,
    file_size INTEGER NOT NULL,
    date_uploaded TEXT NOT NULL,
    FOREIGN KEY (note_id) REFERENCES plant_notes (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_plant_notes_customer ON plant_notes(customer_id);
CREATE INDEX IF NOT EXISTS idx_plant_notes_status ON plant_notes(status);
CREATE INDEX IF NOT EXISTS idx_note_images_note ON note_images(note_id);
`
