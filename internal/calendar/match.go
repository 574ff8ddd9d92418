package calendar

import (
	"strings"
	"time"
)

// MatchScore rates how well an event matches a loose meeting reference.
// The identifier appearing in the title scores 3, any single word of it
// appearing scores 1, the identifier inside an attendee address scores 2,
// and a date fragment inside the start time scores 4.
func MatchScore(event EventSummary, identifier, date string) int {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	score := 0

	title := strings.ToLower(event.Summary)
	if identifier != "" && strings.Contains(title, identifier) {
		score += 3
	} else if anyWordIn(title, identifier) {
		score++
	}

	for _, att := range event.Attendees {
		if identifier != "" && strings.Contains(strings.ToLower(att.Email), identifier) {
			score += 2
			break
		}
	}

	if date != "" && strings.Contains(event.Start.Format(time.RFC3339), date) {
		score += 4
	}

	return score
}

// FindMatchingEvent returns the best-scoring event for the reference, or
// nil when no event reaches the minimum score of 1. Ties keep the
// earliest event in the list.
func FindMatchingEvent(events []EventSummary, identifier, date string) *EventSummary {
	best := -1
	bestScore := 0
	for i, event := range events {
		if score := MatchScore(event, identifier, date); score > bestScore {
			bestScore = score
			best = i
		}
	}
	if bestScore < 1 || best < 0 {
		return nil
	}
	return &events[best]
}

// CancelCriteria filters upcoming events for cancellation. Every field
// that is set must match; an empty criteria matches everything.
type CancelCriteria struct {
	Title        string   // substring of the event title
	Participants []string // attendee email local parts
	Date         string   // YYYY-MM-DD fragment of the start time
}

// Empty reports whether no criteria are set.
func (cc CancelCriteria) Empty() bool {
	return cc.Title == "" && len(cc.Participants) == 0 && cc.Date == ""
}

// Matches reports whether the event satisfies all set criteria.
func (cc CancelCriteria) Matches(event EventSummary) bool {
	if cc.Title != "" && !strings.Contains(strings.ToLower(event.Summary), strings.ToLower(cc.Title)) {
		return false
	}

	if len(cc.Participants) > 0 {
		locals := AttendeeLocalParts(event)
		found := false
		for _, p := range cc.Participants {
			p = strings.ToLower(p)
			for _, local := range locals {
				if p == local {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	if cc.Date != "" && !strings.Contains(event.Start.Format(time.RFC3339), cc.Date) {
		return false
	}

	return true
}

// FilterForCancellation returns the events matching the criteria, in the
// original order.
func FilterForCancellation(events []EventSummary, cc CancelCriteria) []EventSummary {
	var out []EventSummary
	for _, event := range events {
		if cc.Matches(event) {
			out = append(out, event)
		}
	}
	return out
}

// AttendeeLocalParts returns the lowercased part before the @ for each
// attendee address.
func AttendeeLocalParts(event EventSummary) []string {
	locals := make([]string, 0, len(event.Attendees))
	for _, att := range event.Attendees {
		local := att.Email
		if i := strings.Index(local, "@"); i >= 0 {
			local = local[:i]
		}
		locals = append(locals, strings.ToLower(local))
	}
	return locals
}

func anyWordIn(haystack, words string) bool {
	for _, w := range strings.Fields(words) {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}
