// Package solo contains single-value, synchronous helpers over Result[T].
// Every helper keeps the execution unit id of its input.
//
// Highlights:
// - Succeed: start a new unit
// - Try: call a function (Out, error) and convert error to failure or cancel
// - DoubleTee: side effects per outcome
// - Finally: reduce to a concrete value via success/error/cancel handlers
package solo
