// Package storage exports tasks as markdown files with YAML frontmatter, one
// file per task, and reads them back.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/task"
)

const (
	fileExt  = ".md"
	dirPerm  = 0o755
	filePerm = 0o644
)

//nolint:gochecknoglobals // compiled once
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Store handles task file operations under one directory.
type Store struct {
	basePath string
}

// NewStore creates a Store rooted at path.
func NewStore(path string) *Store {
	return &Store{basePath: path}
}

// BasePath returns the base path of the store.
func (s *Store) BasePath() string {
	return s.basePath
}

// Init creates the export directory.
func (s *Store) Init() error {
	return os.MkdirAll(s.basePath, dirPerm)
}

// taskPath returns the full path for a task file.
func (s *Store) taskPath(id string) string {
	return filepath.Join(s.basePath, SanitizePath(id)+fileExt)
}

// Save writes a task to disk.
func (s *Store) Save(t task.Task) error {
	content, err := SerializeMarkdown(t)
	if err != nil {
		return err
	}
	return os.WriteFile(s.taskPath(t.ID), content, filePerm)
}

// Load reads a task from disk.
func (s *Store) Load(id string) (task.Task, error) {
	content, err := os.ReadFile(s.taskPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return task.Task{}, tberrors.TaskNotFoundError{ID: id}
	}
	if err != nil {
		return task.Task{}, err
	}
	return ParseMarkdown(content)
}

// List returns every exported task ordered by file name. Markdown files that
// are not task exports are skipped.
func (s *Store) List() ([]task.Task, error) {
	entries, err := s.exported()
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, e.task)
	}
	return tasks, nil
}

// Export writes tasks and removes the exports of tasks no longer present, so
// the exported files mirror the given set. Other files in the directory are
// left alone. It returns the number of removed files.
func (s *Store) Export(tasks []task.Task) (int, error) {
	if err := s.Init(); err != nil {
		return 0, fmt.Errorf("create export directory: %w", err)
	}

	keep := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if err := s.Save(t); err != nil {
			return 0, fmt.Errorf("export task %s: %w", t.ID, err)
		}
		keep[t.ID] = true
	}

	entries, err := s.exported()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if keep[e.task.ID] {
			continue
		}
		if err := os.Remove(filepath.Join(s.basePath, e.name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

type exportedFile struct {
	name string
	task task.Task
}

// exported returns the files this store wrote: markdown files that parse as
// a task and are named after its ID.
func (s *Store) exported() ([]exportedFile, error) {
	names, err := s.files()
	if err != nil {
		return nil, err
	}

	var out []exportedFile
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(s.basePath, name))
		if err != nil {
			return nil, err
		}
		t, err := ParseMarkdown(content)
		if err != nil || t.ID == "" || filepath.Base(s.taskPath(t.ID)) != name {
			continue
		}
		out = append(out, exportedFile{name: name, task: t})
	}
	return out, nil
}

func (s *Store) files() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// SanitizePath converts a string to a safe file name.
// "1f2e/page id" -> "1f2e-page-id"
func SanitizePath(path string) string {
	return strings.Trim(unsafeChars.ReplaceAllString(path, "-"), "-")
}
