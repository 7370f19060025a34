// Package pipeline runs the fetch, extract and reconcile pass for schedule months.
//
// A Service is shared by the batch command and the HTTP trigger. Every call is
// an independent unit of work: the only shared state is the store, which
// resolves conflicting writes on the game code itself.
package pipeline
