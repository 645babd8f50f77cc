// Package protocol groups the wire contract used by utf8check frame mode.
//
// Ownership boundary:
// - frame/header primitives (frame)
// - tlv payload primitives (tlv)
// - per-message field requirements and string validation (schema)
package protocol
