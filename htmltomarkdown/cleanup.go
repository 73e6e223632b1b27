package htmltomarkdown

import (
	"regexp"
	"slices"
	"strings"
)

var (
	fencePattern     = regexp.MustCompile("^(\\s*)`{3,}([^`]*)$")
	listItemPattern  = regexp.MustCompile(`^(\s*)([-+*]|\d+\.)[ \t]+(\S)`)
	blankRunPattern  = regexp.MustCompile(`\n{4,}`)
	cleanupPassOrder = []func([]string) []string{
		trimTrailingSpace,
		normalizeFences,
		normalizeListMarkers,
	}
)

// Cleanup applies the normalizing passes to converted Markdown:
// trailing whitespace is removed, backtick fences are exactly three
// characters long, list markers are followed by a single space, and no
// more than two consecutive blank lines remain. A panic in any pass
// returns md unchanged.
func Cleanup(md string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = md
		}
	}()

	lines := strings.Split(md, "\n")
	for _, pass := range cleanupPassOrder {
		lines = pass(lines)
	}
	return blankRunPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n\n")
}

func trimTrailingSpace(lines []string) []string {
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}

// fence spans a fenced code block by the line indexes of its opening and
// closing fence lines. close is len(lines) for an unterminated block.
type fence struct {
	open, close int
}

// findFences locates fenced code blocks. A block is closed by a line of at
// least as many backticks as opened it and nothing else.
func findFences(lines []string) []fence {
	var fences []fence
	for i := 0; i < len(lines); i++ {
		if !fencePattern.MatchString(lines[i]) {
			continue
		}
		n := backtickRun(lines[i])
		f := fence{open: i, close: len(lines)}
		for j := i + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed != "" && strings.Trim(trimmed, "`") == "" && len(trimmed) >= n {
				f.close = j
				break
			}
		}
		fences = append(fences, f)
		i = f.close
	}
	return fences
}

func backtickRun(line string) int {
	trimmed := strings.TrimLeft(line, " \t")
	return len(trimmed) - len(strings.TrimLeft(trimmed, "`"))
}

// normalizeFences collapses the opening and closing lines of backtick fences
// to three backticks, keeping the info string as written. Lines inside a
// block are never touched, and a block whose content holds fence lines of
// its own keeps its longer fence so it still encloses them.
func normalizeFences(lines []string) []string {
	for _, f := range findFences(lines) {
		end := min(f.close, len(lines))
		if slices.ContainsFunc(lines[f.open+1:end], fencePattern.MatchString) {
			continue
		}
		m := fencePattern.FindStringSubmatch(lines[f.open])
		lines[f.open] = m[1] + "```" + strings.TrimSpace(m[2])
		if f.close < len(lines) {
			indent := lines[f.close][:len(lines[f.close])-len(strings.TrimLeft(lines[f.close], " \t"))]
			lines[f.close] = indent + "```"
		}
	}
	return lines
}

// normalizeListMarkers rewrites list items outside fenced code so the
// marker is followed by exactly one space.
func normalizeListMarkers(lines []string) []string {
	inFence := make([]bool, len(lines))
	for _, f := range findFences(lines) {
		for i := f.open; i <= f.close && i < len(lines); i++ {
			inFence[i] = true
		}
	}
	for i, line := range lines {
		if inFence[i] {
			continue
		}
		lines[i] = listItemPattern.ReplaceAllString(line, "$1$2 $3")
	}
	return lines
}
