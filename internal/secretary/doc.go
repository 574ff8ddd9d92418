// Package secretary is the conversational front end: it routes each
// user message through intent detection and dispatches to meeting
// scheduling, email composition, email queries, project planning, task
// listing or plain chat.
//
// Incomplete requests open a multi-turn flow that asks for the missing
// details one question at a time; while a flow is active it owns every
// incoming message until it completes or is cancelled. Backend outages
// degrade to fixed conversational replies instead of errors, so a chat
// session survives a missing calendar or mailbox.
package secretary
