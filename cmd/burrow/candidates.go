package main

// Candidate is one identifier occurrence inside the displayed content
// window, in left-to-right, top-to-bottom order.
type Candidate struct {
	// Row is 0-based within the window, Col is a 0-based column.
	Row  int
	Col  int
	Text string
}

// identifierCandidates scans the content window for identifier tokens.
// Ordering matters: the ace assignment is positional.
func identifierCandidates(lines []string) []Candidate {
	var out []Candidate
	for row, line := range lines {
		runes := []rune(line)
		i := 0
		for i < len(runes) {
			if !isIdentStart(runes[i]) {
				i++
				continue
			}
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			out = append(out, Candidate{Row: row, Col: start, Text: string(runes[start:i])})
		}
	}
	return out
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
