// Package planner turns a one-line project objective into an executed
// plan. The model drafts stakeholders and steps as JSON, the plan is
// persisted to the task store and a local plan file, each step is broken
// into assigned tasks through a forced create_task function call, and a
// kickoff meeting is booked with the resolved stakeholders.
//
// Side effects degrade independently: a failed calendar booking or
// notification is logged and skipped, never losing the stored plan.
package planner
