// Package secretary_tools provides the MCP tool for the AI secretary's
// command dispatch.
//
// The secretary_execute_command tool routes one natural-language message
// through the full detection ladder: the plan-command syntax and the
// literal "tasks" keyword are handled without a model call, calendar and
// email intents are classified by the LLM, and everything else becomes
// conversation. The secretary keeps per-account multi-turn state, so a
// client answering a follow-up question ("Which meeting do you mean?")
// simply calls the tool again with the answer.
//
// Unlike the structured calendar and Gmail tools, this surface is always
// registered: it is the conversational entry point, and the actions it
// can take mirror what the chat and voice frontends already allow.
package secretary_tools
