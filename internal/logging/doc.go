// Package logging builds the shared slog logger used across execlink.
//
// Two output formats are supported: a compact console format
// (timestamp LEVEL component: message key=value ...) for interactive use and
// standard JSON for log collection. Level and format come from the
// [logging] config section.
package logging
