// Package record owns worklog record storage under <root>/data.
//
// The filesystem is the single source of truth: a record is a regular file
// named after its identifier, and nothing else is kept about it anywhere.
package record

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/worklog/internal/apperr"
	"github.com/example/worklog/internal/ident"
	"github.com/example/worklog/internal/parser"
)

const (
	// Ext is the record file extension, shared with board pointer entries.
	Ext = ".md"
	// DirName is the record directory under the store root. Board pointer
	// targets are expressed relative to it.
	DirName = "data"
	// TagsDirName is the reserved tags directory. It is created by
	// EnsureLayout and otherwise never touched.
	TagsDirName = "tags"
)

// Store maps identifiers to record documents on disk.
type Store struct {
	root string // absolute store root
}

// NewStore creates a Store rooted at root. Directories are created lazily by
// the path operations, so the root itself need not exist yet.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("record: resolve root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute store root.
func (s *Store) Root() string { return s.root }

// FileName returns the record filename for id.
func FileName(id string) string { return id + Ext }

// IDFromName returns the id for a record-shaped entry name, or "" if the name
// does not qualify (wrong extension or malformed id).
func IDFromName(name string) string {
	id, ok := strings.CutSuffix(name, Ext)
	if !ok || !ident.Valid(id) {
		return ""
	}
	return id
}

// DataDir returns the record directory, creating it (and parents) if absent.
// Safe to call repeatedly.
func (s *Store) DataDir() (string, error) {
	dir := filepath.Join(s.root, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("record: create data dir: %w", err)
	}
	return dir, nil
}

// EnsureLayout creates the record directory and the reserved tags directory.
// The tags directory is never read or populated by the core.
func (s *Store) EnsureLayout() error {
	if _, err := s.DataDir(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.root, TagsDirName), 0o755); err != nil {
		return fmt.Errorf("record: create tags dir: %w", err)
	}
	return nil
}

// PathFor computes the on-disk location for id, creating the containing
// directory if absent. A malformed id maps to ErrUnknownWorklog: nothing can
// exist at a path the store would never produce.
func (s *Store) PathFor(id string) (string, error) {
	if !ident.Valid(id) {
		return "", fmt.Errorf("record: malformed id %q: %w", id, apperr.ErrUnknownWorklog)
	}
	dir, err := s.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName(id)), nil
}

// Exists reports whether a regular file (never a pointer) sits at PathFor(id).
func (s *Store) Exists(id string) bool {
	p, err := s.PathFor(id)
	if err != nil {
		return false
	}
	fi, err := os.Lstat(p)
	return err == nil && fi.Mode().IsRegular()
}

// Read returns the raw bytes of the record for id.
func (s *Store) Read(id string) ([]byte, error) {
	p, err := s.PathFor(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("record: read %s: %w", id, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (s *Store) Write(id string, content []byte) error {
	abs, err := s.PathFor(id)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	tmp, err := os.CreateTemp(dir, ".worklog-tmp-*")
	if err != nil {
		return fmt.Errorf("record: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("record: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("record: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("record: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("record: rename: %w", err)
	}
	success = true
	return nil
}

// ModTime returns the record file's modification time.
func (s *Store) ModTime(id string) (time.Time, error) {
	p, err := s.PathFor(id)
	if err != nil {
		return time.Time{}, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return time.Time{}, fmt.Errorf("record: stat %s: %w", id, err)
	}
	return fi.ModTime(), nil
}

// TitleOf reads the record for id and extracts its title. A missing record or
// a document with no retrievable title fails with ErrRecordUnreadable.
func (s *Store) TitleOf(id string) (string, error) {
	data, err := s.Read(id)
	if err != nil {
		return "", fmt.Errorf("record: title of %s: %w: %w", id, apperr.ErrRecordUnreadable, err)
	}
	res, err := parser.Parse(data)
	if err != nil {
		return "", fmt.Errorf("record: title of %s: %w: %w", id, apperr.ErrRecordUnreadable, err)
	}
	if res.Title == "" {
		return "", fmt.Errorf("record: %s has no title: %w", id, apperr.ErrRecordUnreadable)
	}
	return res.Title, nil
}

// Compose renders a fresh record document: YAML frontmatter carrying the
// title and an empty tags list, then the body.
func Compose(title, body string) []byte {
	fm, _ := yaml.Marshal(struct {
		Title string   `yaml:"title"`
		Tags  []string `yaml:"tags"`
	}{Title: title, Tags: []string{}})

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	if body != "" {
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.Bytes()
}
