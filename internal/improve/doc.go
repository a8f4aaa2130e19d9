// Package improve runs the recursive reflect, plan, act, learn cycle that
// evolves the system toward its recognition gate. Every phase appends an
// auditable event to the journal.
package improve
