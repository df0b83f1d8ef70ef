// Package logtail reads the end of the host log for the fatal error screen.
//
// Read extracts the last N lines with a ring buffer, so memory use is bounded
// by N regardless of file size. Lines up to 1MB are supported.
//
// Entries decodes those lines as the JSON written by the process logger and
// reduces each to level, logger name, message and error. Lines that are not
// JSON (a panic trace, for example) are kept verbatim as the message, so the
// screen never hides what was actually written.
package logtail
