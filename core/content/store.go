// Package content stores per-course material: a singleton notes blob,
// timestamped announcements and uploaded files (lecture materials and
// assignment submissions).
package content

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedType is returned when an uploaded material's extension is
	// not in AllowedExtensions.
	ErrUnsupportedType = errors.New("file type not allowed")
)

// AllowedExtensions is the material upload whitelist. Assignment submissions
// are not filtered.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".txt":  true,
}

// Store is a per-course content store. Course ids are opaque strings; no
// validation beyond presence is performed.
//
// Ordering contract: ListAnnouncements returns entries newest first, ordered
// by descending creation key. Listing operations tolerate a course that has
// never been written to (empty result, not an error); writes create storage
// lazily.
type Store interface {
	// WriteNotes replaces the course's single notes resource; latest write wins.
	WriteNotes(courseID, text string) error
	// ReadNotes returns the notes resource, or "" if it was never written.
	ReadNotes(courseID string) (string, error)

	// ListMaterials returns uploaded material filenames, excluding the
	// reserved notes resource and the reserved announcements sub-directory.
	ListMaterials(courseID string) ([]string, error)
	// SaveMaterial stores an uploaded material after sanitizing its filename.
	// Disallowed extensions are rejected with ErrUnsupportedType; a name
	// collision overwrites.
	SaveMaterial(courseID, filename string, r io.Reader) error
	// OpenMaterial opens a previously stored material for reading.
	OpenMaterial(courseID, filename string) (io.ReadCloser, error)

	// PostAnnouncement appends a new announcement; course id, title and body
	// are all required (core.ValidationError otherwise).
	PostAnnouncement(courseID, title, body string) error
	// ListAnnouncements returns announcement blobs newest first. The listing
	// is recomputed per call, never cached.
	ListAnnouncements(courseID string) ([]string, error)

	// SaveAssignment stores a student submission after sanitizing its
	// filename; no extension filter, a name collision overwrites.
	SaveAssignment(courseID, filename string, r io.Reader) error
	// ListAssignments returns submitted assignment filenames.
	ListAssignments(courseID string) ([]string, error)
}
