// Package team models the organization the secretary works for.
//
// A Roster holds the known team members (name, role, email) and resolves
// the loose references that show up in chat ("the engineers", "Marketing")
// to concrete members. The Intercom delivers notifications between
// members and keeps a bounded history for the dashboard.
//
// The default roster has four members (ceo, marketing, engineering,
// design) with addresses under example.com; a JSON roster file can
// replace it for real deployments.
package team
