// Package script splits a line of text into runs of a single writing direction.
// Joining and visual ordering happen later, when a font shapes each run.
package script

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

// Class is the script classification of a run.
type Class int

const (
	LTR Class = iota
	RTL
	Space
)

func (c Class) String() string {
	switch c {
	case RTL:
		return "rtl"
	case Space:
		return "space"
	default:
		return "ltr"
	}
}

// MarshalText lets debug JSON show "rtl"/"ltr"/"space" instead of numbers.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Classify returns RTL for runes whose bidi class is AL, R or AN, Space for white
// space and LTR for everything else. See Neutral for runes Segment does not split on.
func Classify(r rune) Class {
	if unicode.IsSpace(r) {
		return Space
	}
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.AL, bidi.R, bidi.AN:
		return RTL
	default:
		return LTR
	}
}

// Neutral reports whether r takes the class of the run around it: white space, format
// characters such as ZWNJ and ZWJ (bidi BN) and non-spacing marks (bidi NSM).
func Neutral(r rune) bool {
	if unicode.IsSpace(r) || unicode.Is(unicode.Cf, r) {
		return true
	}
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.BN, bidi.NSM:
		return true
	default:
		return false
	}
}

// Run is a maximal fragment of a line with one classification, in logical order.
type Run struct {
	Class Class  `json:"class"`
	Text  string `json:"text"`
}

// Runes returns the logical character count of the run.
func (r Run) Runes() int { return utf8.RuneCountInString(r.Text) }

// Segment scans line left to right and cuts it whenever the classification of a
// non-neutral rune changes. Spaces, ZWNJ and marks extend the current run so word gaps
// and Persian half-spaces do not split runs. Leading neutrals are absorbed by the
// first classified run.
func Segment(line string) []Run {
	if line == "" {
		return nil
	}
	var (
		runs    []Run
		current Class
		start   = -1
	)
	for i, r := range line {
		cls := Classify(r)
		if Neutral(r) {
			cls = Space
		}
		switch {
		case start < 0:
			start, current = i, cls
		case cls == Space:
			// 空格、零宽连接符与组合符号延续当前 run
		case current == Space:
			current = cls
		case cls != current:
			runs = append(runs, Run{Class: current, Text: line[start:i]})
			start, current = i, cls
		}
	}
	if start >= 0 {
		runs = append(runs, Run{Class: current, Text: line[start:]})
	}
	return runs
}

// Count returns the total rune count and the rune count held by rtl runs.
func Count(runs []Run) (total, rtl int) {
	for _, run := range runs {
		n := run.Runes()
		total += n
		if run.Class == RTL {
			rtl += n
		}
	}
	return total, rtl
}

// IsRTL reports whether more than half of the characters of a line belong to rtl
// runs. Exactly half is left-to-right.
func IsRTL(runs []Run) bool {
	total, rtl := Count(runs)
	return total > 0 && rtl*2 > total
}
