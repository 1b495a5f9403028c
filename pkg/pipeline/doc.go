// Package pipeline runs a fixed sequence of stages over execution units.
//
// Each input becomes one execution unit: a rop.Result whose id is bound,
// together with the pipeline's tracker, to the context every stage sees.
// Skippable stages (skip.Stage) use that scope to hand values to later
// stages. Independent units run concurrently; stages of one unit run in
// order.
//
// Key operations:
// - New: verify the skip layout and build a pipeline
// - Run: one unit, stopping at the first failing stage
// - RunAll: many units on a bounded number of workers, results in input order
// - Verify: report every stash/pop that cannot be matched
package pipeline
