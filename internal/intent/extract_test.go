package intent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMeetingDetails_Defaults(t *testing.T) {
	llm := &fakeChatter{replies: []string{
		`{"title": "design review", "participants": ["design", "engineering"], "date": "", "time": "", "duration": 0}`,
	}}
	d := NewDetector(llm, nil)

	got, err := d.ExtractMeetingDetails(context.Background(), "set up a design review")
	require.NoError(t, err)

	assert.Equal(t, "design review", got.Title)
	assert.Equal(t, []string{"design", "engineering"}, got.Participants)
	assert.Equal(t, time.Now().Format("2006-01-02"), got.Date)
	assert.NotEmpty(t, got.Time)
	assert.Equal(t, 60, got.Duration)
}

func TestExtractMeetingDetails_ExplicitValues(t *testing.T) {
	llm := &fakeChatter{replies: []string{
		`{"title": "standup", "participants": ["ceo"], "date": "2026-09-01", "time": "09:30", "duration": 30}`,
	}}
	d := NewDetector(llm, nil)

	got, err := d.ExtractMeetingDetails(context.Background(), "standup with the ceo sept 1 at 9:30 for half an hour")
	require.NoError(t, err)

	assert.Equal(t, "2026-09-01", got.Date)
	assert.Equal(t, "09:30", got.Time)
	assert.Equal(t, 30, got.Duration)
}

func TestExtractCancellation(t *testing.T) {
	llm := &fakeChatter{replies: []string{
		`{"title": "budget sync", "with_participants": ["marketing"], "date": null}`,
	}}
	d := NewDetector(llm, nil)

	got, err := d.ExtractCancellation(context.Background(), "cancel the budget sync with marketing")
	require.NoError(t, err)

	assert.Equal(t, "budget sync", got.Title)
	assert.Equal(t, []string{"marketing"}, got.WithParticipants)
	assert.Empty(t, got.Date)
}

func TestExtractReschedule_DefaultTime(t *testing.T) {
	llm := &fakeChatter{replies: []string{
		`{"meeting_identifier": "Design Review", "original_date": null, "new_date": "2026-09-02", "new_time": "", "new_duration": null}`,
	}}
	d := NewDetector(llm, nil)

	got, err := d.ExtractReschedule(context.Background(), "move the design review to sept 2")
	require.NoError(t, err)

	assert.Equal(t, "design review", got.MeetingIdentifier, "identifier should be lowercased")
	assert.Equal(t, "2026-09-02", got.NewDate)
	assert.Equal(t, "10:00", got.NewTime)
	assert.Zero(t, got.NewDuration)
}

func TestParseSubjectBodyPatterns(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSubject string
		wantBody    string
		wantMatch   bool
	}{
		{
			name:        "sentence pattern",
			input:       `the subject is Launch Update, body is We ship on Friday.`,
			wantSubject: "Launch Update",
			wantBody:    "We ship on Friday.",
			wantMatch:   true,
		},
		{
			name:        "sentence pattern with quotes",
			input:       `The subject is "Q3 numbers", the body is "Revenue is up 12%"`,
			wantSubject: "Q3 numbers",
			wantBody:    "Revenue is up 12%",
			wantMatch:   true,
		},
		{
			name:        "label pattern",
			input:       "Subject: Weekly report\nBody: All milestones on track.",
			wantSubject: "Weekly report",
			wantBody:    "All milestones on track.",
			wantMatch:   true,
		},
		{
			name:      "no pattern",
			input:     "Just a plain subject line",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSubjectBodyPatterns(tt.input)
			if !tt.wantMatch {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantSubject, got.Subject)
			assert.Equal(t, tt.wantBody, got.Body)
		})
	}
}

func TestParseSubjectBody_PatternSkipsModel(t *testing.T) {
	llm := &fakeChatter{}
	d := NewDetector(llm, nil)

	got, err := d.ParseSubjectBody(context.Background(), "Subject: hello\nBody: world")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Subject)
	assert.Equal(t, "world", got.Body)
	assert.Equal(t, 0, llm.calls)
}

func TestParseSubjectBody_ModelFallback(t *testing.T) {
	llm := &fakeChatter{replies: []string{
		`{"subject": "Team offsite", "body": "Let's meet in person next month."}`,
	}}
	d := NewDetector(llm, nil)

	got, err := d.ParseSubjectBody(context.Background(), "Team offsite. Let's meet in person next month.")
	require.NoError(t, err)
	assert.Equal(t, "Team offsite", got.Subject)
	assert.Equal(t, "Let's meet in person next month.", got.Body)
}
