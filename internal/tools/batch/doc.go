// Package batch supports tools that mutate several items in one call,
// such as completing a list of tasks. It normalizes arguments that
// arrive as a single string, a string array, or a JSON-encoded array,
// runs the operation per item, and reports partial failures in a
// structured result instead of aborting the batch.
package batch
