// Package validation checks a Submission against a registered FormSchema.
//
// Validate first confirms the submission belongs to the schema (marker field
// equals the slug, honeypot empty), then verifies the anti-forgery token, then
// runs each field's rule chain with "required" first, stopping at the first
// failure. Results are memoized on the Submission so repeated calls within a
// request are cheap and identical. Rule failures are data on the Result; only
// a token mismatch is returned as an error (*SecurityError).
package validation
