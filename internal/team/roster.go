package team

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Member is one person (or department inbox) on the team.
type Member struct {
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role"`
	Email string `json:"email" validate:"required,email"`
}

// Roster is the ordered list of team members. Order matters: role
// resolution returns the first match.
type Roster struct {
	mu      sync.RWMutex
	members []Member
}

type rosterFile struct {
	Members []Member `json:"members"`
}

// DefaultRoster returns the built-in four-member team.
func DefaultRoster() *Roster {
	return &Roster{members: []Member{
		{Name: "ceo", Role: "CEO", Email: "ceo@example.com"},
		{Name: "marketing", Role: "Marketing", Email: "marketing@example.com"},
		{Name: "engineering", Role: "Engineering", Email: "engineering@example.com"},
		{Name: "design", Role: "Design", Email: "design@example.com"},
	}}
}

// LoadRoster reads a roster from a JSON file, either a bare member array
// or an object with a "members" key. An empty path returns the default
// roster.
func LoadRoster(path string) (*Roster, error) {
	if path == "" {
		return DefaultRoster(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var members []Member
	if err := json.Unmarshal(raw, &members); err != nil {
		var rf rosterFile
		if err2 := json.Unmarshal(raw, &rf); err2 != nil {
			return nil, fmt.Errorf("failed to parse roster file %s: %w", path, err)
		}
		members = rf.Members
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("roster file %s contains no members", path)
	}

	for i, m := range members {
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("invalid roster member %d (%q): %w", i+1, m.Name, err)
		}
		members[i].Name = strings.ToLower(strings.TrimSpace(m.Name))
	}

	return &Roster{members: members}, nil
}

// Members returns the roster in order.
func (r *Roster) Members() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Names returns the member names in roster order.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.Name
	}
	return names
}

// Register adds a member. The name is normalized to lower case; a member
// with the same name is replaced in place.
func (r *Roster) Register(m Member) error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid member %q: %w", m.Name, err)
	}
	m.Name = strings.ToLower(strings.TrimSpace(m.Name))

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.members {
		if existing.Name == m.Name {
			r.members[i] = m
			return nil
		}
	}
	r.members = append(r.members, m)
	return nil
}

// Remove deletes the member with the given name. Reports whether a
// member was removed.
func (r *Roster) Remove(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.members {
		if m.Name == name {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the member with the exact name, case-insensitively.
func (r *Roster) Get(name string) (Member, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(name)
}

func (r *Roster) getLocked(name string) (Member, bool) {
	for _, m := range r.members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Resolve maps a loose role reference ("Marketing", "the engineering
// team") to a member. A member name appearing anywhere inside the
// reference counts as a match; the first member in roster order wins.
func (r *Roster) Resolve(role string) (Member, bool) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return Member{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.getLocked(role); ok {
		return m, true
	}
	for _, m := range r.members {
		if strings.Contains(role, m.Name) {
			return m, true
		}
	}
	return Member{}, false
}

// ResolveEmail turns a recipient reference into an email address.
// Addresses pass through unchanged; known member names map to their
// roster address; anything else becomes name@example.com with spaces
// stripped.
func (r *Roster) ResolveEmail(recipient string) string {
	recipient = strings.TrimSpace(recipient)
	if strings.Contains(recipient, "@") {
		return recipient
	}
	if m, ok := r.Get(recipient); ok {
		return m.Email
	}
	return strings.ToLower(strings.ReplaceAll(recipient, " ", "")) + "@example.com"
}

// Emails resolves a list of member names or addresses for event
// attendee lists.
func (r *Roster) Emails(names []string) []string {
	emails := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		emails = append(emails, r.ResolveEmail(n))
	}
	return emails
}
