// Package classify asks the completion service to sort task lines into
// named buckets.
//
// Responses are decoded strictly first, then after llm.RepairJSON, and
// finally by salvaging "text"/"bucket" pairs with a regular expression.
// When all three fail the call returns ErrUnparseable.
package classify
