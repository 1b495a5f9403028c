// Package core contains pipeline plumbing: channel helpers, worker options
// carried by context, and the Locomotive loop that drives execution units
// through an engine with a bounded number of workers.
package core
