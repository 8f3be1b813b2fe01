package util

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string, used for record ids and stored filenames.
// Lowercased so generated filenames look uniform on disk.
func New() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.Reader, 0)

	return strings.ToLower(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}
