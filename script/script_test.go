package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, RTL, Classify('س'))
	assert.Equal(t, RTL, Classify('א'))
	assert.Equal(t, RTL, Classify('٣'))
	assert.Equal(t, LTR, Classify('A'))
	assert.Equal(t, LTR, Classify('7'))
	assert.Equal(t, LTR, Classify('!'))
	assert.Equal(t, Space, Classify(' '))
	assert.Equal(t, Space, Classify('\t'))
}

func TestSegmentMixedLine(t *testing.T) {
	runs := Segment("سلام Hello دنیا")
	require.Len(t, runs, 3)
	assert.Equal(t, Run{Class: RTL, Text: "سلام "}, runs[0])
	assert.Equal(t, Run{Class: LTR, Text: "Hello "}, runs[1])
	assert.Equal(t, Run{Class: RTL, Text: "دنیا"}, runs[2])
}

func TestSegmentSpacesDoNotBreakRuns(t *testing.T) {
	runs := Segment("hello big world")
	require.Len(t, runs, 1)
	assert.Equal(t, LTR, runs[0].Class)
	assert.Equal(t, "hello big world", runs[0].Text)
}

func TestSegmentLeadingSpacesJoinFirstRun(t *testing.T) {
	runs := Segment("   سلام")
	require.Len(t, runs, 1)
	assert.Equal(t, RTL, runs[0].Class)
	assert.Equal(t, "   سلام", runs[0].Text)
}

func TestSegmentOnlySpaces(t *testing.T) {
	runs := Segment("   ")
	require.Len(t, runs, 1)
	assert.Equal(t, Space, runs[0].Class)
}

func TestSegmentEmptyLine(t *testing.T) {
	assert.Empty(t, Segment(""))
}

func TestSegmentPreservesText(t *testing.T) {
	line := "ab سلام 12 cd  ف"
	var joined string
	for _, run := range Segment(line) {
		joined += run.Text
	}
	assert.Equal(t, line, joined)
}

func TestIsRTLBoundary(t *testing.T) {
	// 2 rtl + 2 ltr: exactly half stays left-to-right
	half := []Run{{Class: RTL, Text: "سل"}, {Class: LTR, Text: "ab"}}
	assert.False(t, IsRTL(half))

	// 3 rtl + 2 ltr
	more := []Run{{Class: RTL, Text: "سلا"}, {Class: LTR, Text: "ab"}}
	assert.True(t, IsRTL(more))

	assert.False(t, IsRTL(nil))
}

func TestNeutral(t *testing.T) {
	assert.True(t, Neutral(' '))
	assert.True(t, Neutral('\u200c'))
	assert.True(t, Neutral('\u200d'))
	assert.True(t, Neutral('\u064e'))
	assert.False(t, Neutral('س'))
	assert.False(t, Neutral('A'))
}

func TestSegmentKeepsHalfSpaceInRun(t *testing.T) {
	runs := Segment("این می\u200cشود")
	require.Len(t, runs, 1)
	assert.Equal(t, RTL, runs[0].Class)
	assert.Equal(t, "این می\u200cشود", runs[0].Text)
}

func TestSegmentKeepsMarksInRun(t *testing.T) {
	runs := Segment("بَب ok")
	require.Len(t, runs, 2)
	assert.Equal(t, Run{Class: RTL, Text: "بَب "}, runs[0])
	assert.Equal(t, Run{Class: LTR, Text: "ok"}, runs[1])
}
