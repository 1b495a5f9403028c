// Package rop holds the Result type pipelines pass between stages.
//
// A Result is a success, a failure or a cancellation of one execution unit.
// Its Id names the unit; Carry, FailFrom and CancelFrom keep that id while
// the unit moves through the stages. The solo and core subpackages build on
// it:
// - solo: synchronous helpers (Try, Finally) that preserve the unit id
// - core: channel plumbing and the Locomotive worker loop
package rop
