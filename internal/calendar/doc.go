// Package calendar provides a client for interacting with the Google Calendar API.
//
// This package offers functionality for managing calendar events, including
// creating, reading, updating, and deleting events, creating task reminder
// events, checking availability and finding available time slots for
// scheduling meetings. Event matching helpers score upcoming events against
// loose natural-language references ("the meeting with design on Friday")
// for cancellation and rescheduling.
//
// The client supports multi-account authentication using the Google OAuth2 flow
// and can manage events across multiple Google accounts.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List the next ten meetings
//	events, err := client.ListUpcoming("primary", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find the one the user is talking about
//	match := calendar.FindMatchingEvent(events, "sync with design", "2026-09-04")
package calendar
