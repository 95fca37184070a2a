// Package review implements the interactive confirmation session for
// clusters in the needs-review tier.
//
// A Session walks Pending clusters in order and asks an injected Reviewer
// for a decision on each one. The session is strictly sequential: the next
// cluster is never presented before the current one is answered. Confirmed
// clusters proceed to canonicalization, rejected clusters dissolve into
// NoGroup singletons so their records are never silently dropped, and
// skipped clusters are requeued once at the end of the pass before being
// reported back as unresolved.
//
// The Reviewer abstraction keeps the engine free of terminal I/O; tests
// drive sessions with a scripted reviewer and the CLI supplies a console
// implementation.
package review
