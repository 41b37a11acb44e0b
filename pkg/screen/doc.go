// Package screen implements the operator side of logtail: a listener that
// reads commands from standard input one line at a time and clears the
// terminal when asked to.
//
// The listener shares the terminal with the tailer and takes no lock on it.
// A clear can land before, after or between tail writes; the operator is the
// only consumer of the screen so a momentary odd interleave is acceptable.
package screen
