// Package llm provides a chat completion client for JSON-producing prompts.
//
// This package is used by:
//   - classify: sort task lines into named buckets
//   - deconstruct: expand one task into milestones and steps
//   - preflight: verify the API key and model
//
// # Configuration
//
// Requires api_key, model, and optionally base_url, referer, title, timeout.
// A client without an API key fails every call with ErrNotConfigured and
// never touches the network.
//
// # Retry Behaviour
//
// Only timeout-class failures are retried: network timeouts, requests that
// could not be sent, and HTTP 408/504/524. The wait after attempt n is
// n*step (linear). When every attempt fails the error wraps ErrMaxRetries.
// Authentication errors, rate limits and malformed requests return at once.
//
// # Response Repair
//
// Model output is untrusted. RepairJSON slices to the outermost braces,
// drops trailing commas and quotes bare keys; DecodeLLMJSON layers it under
// a plain decode.
package llm
