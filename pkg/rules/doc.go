// Package rules holds the named validation rules a FieldDef can reference.
//
// Rules are pure functions over the trimmed submitted value; they never touch
// I/O. A Registry maps rule names to implementations and is consulted twice:
// once when a schema is registered (unknown names and malformed parameters are
// rejected there) and again by the validator when a submission is checked.
package rules
