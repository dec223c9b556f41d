package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"

	"github.com/alphauniversity/portal/core"
)

// Filesystem layout, per course id:
//
//	<root>/<courseID>/lecture_notes.txt
//	<root>/<courseID>/<materialFilename>
//	<root>/<courseID>/announcements/<timestamp>_<title>.txt
//	<root>/<courseID>/assignments/<filename>
//
// Announcement ordering relies on the timestamp prefix being fixed-width and
// monotonic: a reverse lexical sort of filenames is reverse chronological.
const (
	notesFilename    = "lecture_notes.txt"
	announcementsDir = "announcements"
	assignmentsDir   = "assignments"

	timestampLayout = "20060102150405"
)

var (
	errCourseIDRequired = errors.New("course id is required")
	errTitleRequired    = errors.New("announcement title is required")
	errBodyRequired     = errors.New("announcement content is required")
)

type fsStore struct {
	root    string
	nowFunc func() time.Time
}

var _ Store = (*fsStore)(nil)

// NewFSStore returns a Store backed by a directory tree rooted at root.
func NewFSStore(root string) Store {
	return &fsStore{root: root, nowFunc: time.Now}
}

func (s *fsStore) courseDir(courseID string) string {
	return filepath.Join(s.root, courseID)
}

func (s *fsStore) WriteNotes(courseID, text string) error {
	if courseID == "" {
		return core.NewValidationError(errCourseIDRequired, core.FieldError{Field: "course_id", Error: errCourseIDRequired.Error()})
	}
	dir := s.courseDir(courseID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating course directory")
	}
	return os.WriteFile(filepath.Join(dir, notesFilename), []byte(text), 0o644)
}

func (s *fsStore) ReadNotes(courseID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.courseDir(courseID), notesFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading lecture notes")
	}
	return string(data), nil
}

func (s *fsStore) ListMaterials(courseID string) ([]string, error) {
	entries, err := os.ReadDir(s.courseDir(courseID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing course directory")
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == notesFilename || name == announcementsDir {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func (s *fsStore) SaveMaterial(courseID, filename string, r io.Reader) error {
	if !AllowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedType
	}
	return s.saveFile(s.courseDir(courseID), filename, r)
}

func (s *fsStore) OpenMaterial(courseID, filename string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.courseDir(courseID), SanitizeFilename(filename)))
}

func (s *fsStore) PostAnnouncement(courseID, title, body string) error {
	var flds []core.FieldError
	if courseID == "" {
		flds = append(flds, core.FieldError{Field: "course_id", Error: errCourseIDRequired.Error()})
	}
	if title == "" {
		flds = append(flds, core.FieldError{Field: "announcement_title", Error: errTitleRequired.Error()})
	}
	if body == "" {
		flds = append(flds, core.FieldError{Field: "announcement_content", Error: errBodyRequired.Error()})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("all fields are required for announcements"), flds...)
	}

	dir := filepath.Join(s.courseDir(courseID), announcementsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating announcements directory")
	}

	filename := fmt.Sprintf("%s_%s.txt", s.nowFunc().Format(timestampLayout), slug.Make(title))
	blob := fmt.Sprintf("Title: %s\n\n%s", title, body)
	return os.WriteFile(filepath.Join(dir, filename), []byte(blob), 0o644)
}

func (s *fsStore) ListAnnouncements(courseID string) ([]string, error) {
	dir := filepath.Join(s.courseDir(courseID), announcementsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing announcements")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	// newest first: reverse lexical order of the fixed-width timestamp prefix
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	blobs := make([]string, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrap(err, "reading announcement")
		}
		blobs = append(blobs, string(data))
	}
	return blobs, nil
}

func (s *fsStore) SaveAssignment(courseID, filename string, r io.Reader) error {
	return s.saveFile(filepath.Join(s.courseDir(courseID), assignmentsDir), filename, r)
}

func (s *fsStore) ListAssignments(courseID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.courseDir(courseID), assignmentsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing assignments")
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (s *fsStore) saveFile(dir, filename string, r io.Reader) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating directory")
	}

	f, err := os.Create(filepath.Join(dir, SanitizeFilename(filename)))
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Wrap(err, "writing file")
	}
	return f.Close()
}

// SanitizeFilename strips path components and unsafe characters from an
// uploaded filename, keeping the (lowercased) extension.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.Clean(filename))
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	safe := slug.Make(stem)
	if safe == "" {
		safe = "file"
	}
	return safe + ext
}
