package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicLines(t *testing.T) {
	doc := "[00:01.00] hello\n[00:05.50] world\n[00:00.00] intro"
	lines := Parse(doc)
	require.Len(t, lines, 3)
	assert.Equal(t, int64(0), lines[0].Timestamp)
	assert.Equal(t, "intro", lines[0].Text)
	assert.Equal(t, int64(1000), lines[1].Timestamp)
	assert.Equal(t, int64(5500), lines[2].Timestamp)
}

func TestParseSkipsUntaggedLines(t *testing.T) {
	doc := "[ar:Some Artist]\n[00:02.00] real line\nnot a lyric line at all"
	lines := Parse(doc)
	require.Len(t, lines, 1)
	assert.Equal(t, "real line", lines[0].Text)
}

func TestParseMultiTagLine(t *testing.T) {
	doc := "[00:01.00][00:30.00] repeated chorus"
	lines := Parse(doc)
	require.Len(t, lines, 2)
	assert.Equal(t, "repeated chorus", lines[0].Text)
	assert.Equal(t, "repeated chorus", lines[1].Text)
	assert.Equal(t, int64(1000), lines[0].Timestamp)
	assert.Equal(t, int64(30000), lines[1].Timestamp)
}

func TestParseSingleDigitFraction(t *testing.T) {
	doc := "[00:01.5] x"
	lines := Parse(doc)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1500), lines[0].Timestamp)
}

func TestIndexAtBeforeFirstLine(t *testing.T) {
	lines := Parse("[00:05.00] first")
	assert.Equal(t, -1, IndexAt(lines, 1000))
}

func TestIndexAtAdvancesWithPosition(t *testing.T) {
	lines := Parse("[00:00.00] a\n[00:10.00] b\n[00:20.00] c")
	assert.Equal(t, 0, IndexAt(lines, 5000))
	assert.Equal(t, 1, IndexAt(lines, 15000))
	assert.Equal(t, 2, IndexAt(lines, 99000))
}
