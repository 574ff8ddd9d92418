// Package planner_tools provides the MCP tool for LLM-driven project
// planning.
//
// planner_plan_project runs the full planning pipeline: the model drafts
// stakeholders and steps as JSON, the plan is stored and written to a
// plan file, a kickoff meeting is booked with the resolved roster
// members, and every step is broken into tasks through a forced
// create_task function call. Side effects past the stored plan are best
// effort; a flaky calendar never loses the plan itself.
//
// Planning is a write operation, so the tool is only registered when the
// server runs with --yolo.
package planner_tools
