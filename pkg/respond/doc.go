// Package respond turns validation verdicts and explicit response actions
// into effects: re-render the form, redirect, store a one-shot flash message,
// or write a JSON envelope for the client script.
//
// Envelope shapes on the wire:
//
//	{"respond":{"refresh":true}}
//	{"respond":{"redirect":"/thanks"}}
//	{"respond":{"message":["Saved","notice success"]}}
//	{"errors":{"email":"Please enter a valid email"},"messages":[["Check the form","error"]]}
package respond
