// Package simulate replays proposed plans against a private copy of the
// rack's ownership state, validating each action's preconditions and the
// global layout invariants.
//
// The simulator never mutates its inputs: every run builds a fresh State
// from the supplied zones, allocation and utilization, mutates only that
// copy, and returns it as the run's final state. Three entry points share
// the same state machine:
//
//   - Simulate reports every violation it finds without stopping.
//   - Repair silently drops failing actions and returns the valid subset;
//     re-simulating a repaired plan always validates.
//   - Score replays ignoring failures and ranks the outcome by fit,
//     contiguity and churn. The score compares alternative plans; it is
//     never a pass/fail gate.
package simulate
