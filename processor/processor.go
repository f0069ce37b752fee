// Package processor holds the pure text transforms that run around a
// translation: formatting placeholders, protected span splitting, and
// chunking of long text.
//
// Nothing in this package performs I/O or returns errors for well-formed
// input; callers validate marker symbols before use.
package processor
