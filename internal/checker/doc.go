// Package checker wraps the utf8check scanner with logging, metrics and the
// frame request/response loop.
//
// Ownership boundary:
// - stream checks from the CLI (ints and raw input)
// - check/verdict envelopes over protocol frames
package checker
