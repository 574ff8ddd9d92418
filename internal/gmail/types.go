package gmail

import "strings"

// EmailSummary represents a fetched email with its decoded content
type EmailSummary struct {
	ID          string
	ThreadID    string
	Subject     string
	From        string
	Date        string
	Snippet     string
	Body        string
	LabelIDs    []string
	Attachments []string // filenames of attached files
}

// LabelInfo represents a Gmail label
type LabelInfo struct {
	ID   string
	Name string
	Type string // "system" or "user"
}

// Profile represents the authenticated mailbox
type Profile struct {
	EmailAddress  string
	MessagesTotal int64
	ThreadsTotal  int64
}

// SearchCriteria describes a structured email search. Zero-valued fields
// are omitted from the generated query.
type SearchCriteria struct {
	From          string
	To            string
	Subject       string
	Keywords      []string
	HasAttachment bool
	IsUnread      bool
	Label         string
	After         string // YYYY/MM/DD
	Before        string // YYYY/MM/DD
	MaxResults    int64
}

// Empty reports whether no search fields are set
func (sc SearchCriteria) Empty() bool {
	return sc.From == "" && sc.To == "" && sc.Subject == "" &&
		len(sc.Keywords) == 0 && !sc.HasAttachment && !sc.IsUnread &&
		sc.Label == "" && sc.After == "" && sc.Before == ""
}

// BuildQuery renders the criteria as a Gmail search expression,
// e.g. "from:alice subject:budget has:attachment is:unread"
func (sc SearchCriteria) BuildQuery() string {
	var parts []string

	if sc.From != "" {
		parts = append(parts, "from:"+sc.From)
	}
	if sc.To != "" {
		parts = append(parts, "to:"+sc.To)
	}
	if sc.Subject != "" {
		parts = append(parts, "subject:"+sc.Subject)
	}
	if sc.HasAttachment {
		parts = append(parts, "has:attachment")
	}
	if sc.Label != "" {
		parts = append(parts, "label:"+sc.Label)
	}
	if sc.IsUnread {
		parts = append(parts, "is:unread")
	}
	if sc.After != "" {
		parts = append(parts, "after:"+sc.After)
	}
	if sc.Before != "" {
		parts = append(parts, "before:"+sc.Before)
	}
	if len(sc.Keywords) > 0 {
		parts = append(parts, strings.Join(sc.Keywords, " "))
	}

	return strings.Join(parts, " ")
}
