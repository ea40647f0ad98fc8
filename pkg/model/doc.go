// Package model defines the declarative form schema shared by the registry,
// renderer, and validator. A FormSchema owns an ordered list of FieldDefs; a
// field joins a fieldset through its Fieldset back-reference, which is the only
// supported grouping representation. Validation rules are referenced by name
// (RuleCall) and resolved against the rules registry when the schema is
// registered, so a misspelled rule fails at startup rather than being skipped
// while serving. Struct fields carry JSON and YAML tags so schemas can be
// authored as files and decoded by the loader package.
package model
