// Package export writes the review artifact: a timestamped JSON document
// carrying only the uncertain groups so a reviewer can inspect them in a
// viewer of their choice alongside the interactive session.
package export
