// Package team_tools provides MCP tools for the team roster.
//
// The roster is what turns names like "engineering" into email addresses
// for meeting invites, task assignment and the intercom. team_list_members
// shows it; team_add_member (write mode only) registers or replaces a
// member in memory. Persistent roster changes belong in the roster file.
package team_tools
