package intent

// Kind identifies which command a piece of user text resolved to.
type Kind string

const (
	KindPlanProject Kind = "plan_project"
	KindListTasks   Kind = "list_tasks"
	KindCalendar    Kind = "calendar"
	KindSendEmail   Kind = "send_email"
	KindEmailQuery  Kind = "email_query"
	KindChat        Kind = "chat"
)

// Calendar actions returned by the classifier.
const (
	ActionScheduleMeeting   = "schedule_meeting"
	ActionCancelMeeting     = "cancel_meeting"
	ActionListMeetings      = "list_meetings"
	ActionRescheduleMeeting = "reschedule_meeting"
)

// Email query actions returned by the classifier.
const (
	EmailActionNone           = "none"
	EmailActionListLabels     = "list_labels"
	EmailActionAdvancedSearch = "advanced_search"
	EmailActionFetchRecent    = "fetch_recent"
	EmailActionSearch         = "search"
)

// Result is the outcome of running the detection ladder over one message.
// Exactly one of the pointer fields is set, matching Kind.
type Result struct {
	Kind      Kind
	Plan      *PlanCommand
	Calendar  *CalendarIntent
	SendEmail *SendEmailIntent
	Email     *EmailCommand
}

// PlanCommand is the parsed `plan NAME = objective` command.
type PlanCommand struct {
	ProjectID string
	Objective string
}

// CalendarIntent describes a detected calendar command.
type CalendarIntent struct {
	Action      string   `json:"action"`
	MissingInfo []string `json:"missing_info"`
}

// SendEmailIntent describes a detected request to send an email, including
// whatever fields the model could already extract.
type SendEmailIntent struct {
	Recipient   string   `json:"recipient"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	MissingInfo []string `json:"missing_info"`
}

// EmailCriteria are Gmail search filters extracted from a query command.
type EmailCriteria struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	Subject       string   `json:"subject"`
	Keywords      []string `json:"keywords"`
	HasAttachment bool     `json:"has_attachment"`
	IsUnread      bool     `json:"is_unread"`
	Label         string   `json:"label"`
	After         string   `json:"after"`
	Before        string   `json:"before"`
	MaxResults    int      `json:"max_results"`
}

// EmailCommand describes a detected email query (search, recent, labels).
type EmailCommand struct {
	Action      string        `json:"action"`
	Criteria    EmailCriteria `json:"criteria"`
	SummaryType string        `json:"summary_type"`
}

// MeetingDetails are the structured fields extracted from a scheduling
// message. Date and Time carry defaults when the message left them out.
type MeetingDetails struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	Date         string   `json:"date"` // YYYY-MM-DD
	Time         string   `json:"time"` // HH:MM, 24-hour
	Duration     int      `json:"duration"`
}

// Cancellation carries the criteria extracted from a cancel command.
// Empty fields mean "not specified"; matching treats them as wildcards.
type Cancellation struct {
	Title            string   `json:"title"`
	WithParticipants []string `json:"with_participants"`
	Date             string   `json:"date"` // YYYY-MM-DD
}

// Reschedule carries the fields extracted from a reschedule command.
type Reschedule struct {
	MeetingIdentifier string `json:"meeting_identifier"`
	OriginalDate      string `json:"original_date"`
	NewDate           string `json:"new_date"`
	NewTime           string `json:"new_time"`
	NewDuration       int    `json:"new_duration"`
}

// SubjectBody is the result of splitting a combined subject+body answer.
type SubjectBody struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
