// Package solver implements the greedy row allocation solver.
//
// The solver is a deterministic, multi-phase algorithm that proposes row
// ownership changes for a cellar rack. Phases run in a fixed order, each
// mutating a private ownership ledger so later phases see the corrected
// layout:
//
//  1. Color boundary repair - swap rows so one color family precedes the
//     other across a single boundary, then fix residual adjacent conflicts.
//  2. Capacity deficit resolution - greedy best-first donor selection for
//     zones owning fewer rows than their demand.
//  3. Merge detection - retire or merge near-empty zones into affine
//     neighbors.
//  4. Scattered-wine consolidation - pull gap rows into the majority owner
//     of a wine spanning several rows.
//  5. Prioritize and limit - dedupe, order by priority, cap by stability
//     bias.
//
// The solver never fails on unsatisfiable demand: an absent donor or merge
// candidate simply yields fewer actions. It performs no I/O and completes in
// O(Z²×R) for Z zones and R rows.
package solver
