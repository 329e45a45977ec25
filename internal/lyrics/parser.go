// Package lyrics parses .lrc-style time-synced lyric documents and
// tracks which line is active against the engine's current playback
// position.
package lyrics

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Line is one timestamped lyric line, in ascending Timestamp order
// once returned from Parse.
type Line struct {
	Timestamp int64 // milliseconds from track start
	Text      string
}

var tagPattern = regexp.MustCompile(`^\[(\d{1,3}):(\d{2})(?:\.(\d{1,3}))?\](.*)$`)

// Parse reads `[mm:ss.xx] text` lines per spec.md §4.11's grammar.
// Lines carrying no recognizable timestamp tag are skipped; a line
// with multiple leading tags (a common .lrc convention for repeated
// lyrics at several timestamps) produces one Line per tag. The result
// is sorted by Timestamp.
func Parse(doc string) []Line {
	var lines []Line
	scanner := bufio.NewScanner(strings.NewReader(doc))
	for scanner.Scan() {
		lines = append(lines, parseLine(scanner.Text())...)
	}
	sortLines(lines)
	return lines
}

func parseLine(raw string) []Line {
	var out []Line
	rest := raw
	for {
		m := tagPattern.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		min, _ := strconv.Atoi(m[1])
		sec, _ := strconv.Atoi(m[2])
		frac := m[3]
		ms := 0
		if frac != "" {
			switch len(frac) {
			case 1:
				ms, _ = strconv.Atoi(frac)
				ms *= 100
			case 2:
				ms, _ = strconv.Atoi(frac)
				ms *= 10
			default:
				ms, _ = strconv.Atoi(frac[:3])
			}
		}
		ts := int64(min)*60_000 + int64(sec)*1000 + int64(ms)
		out = append(out, Line{Timestamp: ts})
		rest = m[4]
	}
	text := strings.TrimSpace(rest)
	for i := range out {
		out[i].Text = text
	}
	return out
}

func sortLines(lines []Line) {
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && lines[j].Timestamp < lines[j-1].Timestamp; j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}
}

// IndexAt returns the index of the active line at position ms, or -1
// if ms precedes the first line. lines must be sorted ascending.
//
// This diverges from the "0 if none" active-index wording on the data
// model: -1 distinguishes before-first-line from on-first-line, and
// the Control Surface maps it to a null active-line event rather than
// index 0.
func IndexAt(lines []Line, ms int64) int {
	idx := -1
	for i, l := range lines {
		if l.Timestamp > ms {
			break
		}
		idx = i
	}
	return idx
}
