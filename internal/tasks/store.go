package tasks

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const storeVersion = 1

// minPrefixLen is the shortest task ID prefix accepted by lookups.
const minPrefixLen = 4

var (
	// ErrNotFound is returned when no task or project matches the given ID.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousID is returned when an ID prefix matches more than one task.
	ErrAmbiguousID = errors.New("ambiguous task ID")
)

// fileData is the on-disk layout of the store.
type fileData struct {
	Version  int       `json:"version"`
	Tasks    []Task    `json:"tasks"`
	Projects []Project `json:"projects,omitempty"`
}

// Store keeps tasks and project plans in a single JSON file.
//
// All methods are safe for concurrent use. Every mutation is written back
// to disk before it returns, using a temp-file rename so a crash never
// leaves a half-written store behind.
type Store struct {
	path string

	mu   sync.RWMutex
	data fileData
}

// NewStore opens the store at path. A missing file is treated as an
// empty store; the file is created on the first write.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, data: fileData{Version: storeVersion}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read task store: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse task store %s: %w", path, err)
	}
	if s.data.Version == 0 {
		s.data.Version = storeVersion
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Add creates a new task and persists it.
func (s *Store) Add(input TaskInput) (*Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("task title is required")
	}

	t := Task{
		ID:          newID(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
		CreatedAt:   time.Now().UTC(),
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Tasks = append(s.data.Tasks, t)
	if err := s.persist(); err != nil {
		s.data.Tasks = s.data.Tasks[:len(s.data.Tasks)-1]
		return nil, err
	}
	return &t, nil
}

// Get returns the task with the given ID. A unique ID prefix of at
// least four characters is also accepted.
func (s *Store) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, err := s.find(id)
	if err != nil {
		return nil, err
	}
	t := s.data.Tasks[i]
	return &t, nil
}

// List returns the tasks matching the filter, earliest due date first.
func (s *Store) List(f Filter) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Task
	for _, t := range s.data.Tasks {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// ListOpen returns every task that has not been completed.
func (s *Store) ListOpen() []Task {
	return s.List(Filter{})
}

// ListForMember returns the open tasks assigned to a team member.
func (s *Store) ListForMember(member string) []Task {
	return s.List(Filter{AssignedTo: member})
}

// Complete marks a task as done.
func (s *Store) Complete(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !s.data.Tasks[i].Done {
		s.data.Tasks[i].Done = true
		if err := s.persist(); err != nil {
			s.data.Tasks[i].Done = false
			return nil, err
		}
	}
	t := s.data.Tasks[i]
	return &t, nil
}

// Assign moves a task to another team member.
func (s *Store) Assign(id, member string) (*Task, error) {
	member = strings.TrimSpace(member)
	if member == "" {
		return nil, fmt.Errorf("assignee is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return nil, err
	}
	prev := s.data.Tasks[i].AssignedTo
	s.data.Tasks[i].AssignedTo = member
	if err := s.persist(); err != nil {
		s.data.Tasks[i].AssignedTo = prev
		return nil, err
	}
	t := s.data.Tasks[i]
	return &t, nil
}

// Remove deletes a task permanently.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return err
	}
	// Stage the removal in a fresh slice so a failed persist leaves
	// the in-memory state matching what is on disk.
	remaining := make([]Task, 0, len(s.data.Tasks)-1)
	remaining = append(remaining, s.data.Tasks[:i]...)
	remaining = append(remaining, s.data.Tasks[i+1:]...)

	prev := s.data.Tasks
	s.data.Tasks = remaining
	if err := s.persist(); err != nil {
		s.data.Tasks = prev
		return err
	}
	return nil
}

// SaveProject inserts or replaces a project plan by ID.
func (s *Store) SaveProject(p Project) (*Project, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replacedAt := -1
	var replaced Project
	for i := range s.data.Projects {
		if s.data.Projects[i].ID == p.ID {
			replacedAt, replaced = i, s.data.Projects[i]
			s.data.Projects[i] = p
			break
		}
	}
	if replacedAt < 0 {
		s.data.Projects = append(s.data.Projects, p)
	}
	if err := s.persist(); err != nil {
		if replacedAt >= 0 {
			s.data.Projects[replacedAt] = replaced
		} else {
			s.data.Projects = s.data.Projects[:len(s.data.Projects)-1]
		}
		return nil, err
	}
	return &p, nil
}

// GetProject returns the project plan with the given ID.
func (s *Store) GetProject(id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Projects {
		if s.data.Projects[i].ID == id {
			p := s.data.Projects[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
}

// ListProjects returns all stored project plans, newest first.
func (s *Store) ListProjects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Project, len(s.data.Projects))
	copy(out, s.data.Projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// find locates a task by ID or unique ID prefix. Callers must hold at
// least the read lock.
func (s *Store) find(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, fmt.Errorf("task ID is required: %w", ErrNotFound)
	}

	match := -1
	for i := range s.data.Tasks {
		if s.data.Tasks[i].ID == id {
			return i, nil
		}
		if len(id) >= minPrefixLen && strings.HasPrefix(s.data.Tasks[i].ID, id) {
			if match >= 0 {
				return -1, fmt.Errorf("task %q: %w", id, ErrAmbiguousID)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	return match, nil
}

// persist writes the store to disk atomically. Callers must hold the
// write lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode task store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write task store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close task store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set store permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace task store: %w", err)
	}
	return nil
}

func newID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
