package disassembler

import (
	"fmt"
	"strings"
)

const bytesPerLine = 8

// isPrintableASCII checks if a byte is a standard printable ASCII character.
func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E && b != '\''
}

// formatData splits a run of non-code bytes into db lines. NUL-terminated
// printable runs of at least four characters are shown as strings.
func formatData(data []byte, baseAddr uint64) []Line {
	var lines []Line
	const minStrLen = 4

	i := 0
	for i < len(data) {
		end := i
		for end < len(data) && isPrintableASCII(data[end]) {
			end++
		}
		if end-i >= minStrLen && end < len(data) && data[end] == 0x00 {
			lines = append(lines, Line{
				Address: baseAddr + uint64(i),
				Bytes:   data[i : end+1],
				Text:    fmt.Sprintf("db '%s',0", data[i:end]),
			})
			i = end + 1
			continue
		}

		// Hex up to the next candidate string or the line width.
		stop := i + 1
		for stop < len(data) && stop-i < bytesPerLine && !startsString(data[stop:]) {
			stop++
		}
		lines = append(lines, Line{
			Address: baseAddr + uint64(i),
			Bytes:   data[i:stop],
			Text:    "db " + formatHexBytes(data[i:stop]),
		})
		i = stop
	}
	return lines
}

// startsString reports whether b begins with a NUL-terminated printable run.
func startsString(b []byte) bool {
	n := 0
	for n < len(b) && isPrintableASCII(b[n]) {
		n++
	}
	return n >= 4 && n < len(b) && b[n] == 0x00
}

// formatHexBytes formats bytes as a comma-separated list of hex literals.
func formatHexBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02x", b)
	}
	return strings.Join(parts, ",")
}
