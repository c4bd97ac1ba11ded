// Package csvimport reads and writes the player and session CSV templates.
//
// Parsing is a single validation pass: headers are matched, each row is
// checked for required fields, dates and times are parsed, cohort names are
// resolved, and rows that collide with existing records or earlier rows in
// the same file are reported as duplicates rather than errors. Nothing here
// touches the database; callers hand in the reference lists.
package csvimport
