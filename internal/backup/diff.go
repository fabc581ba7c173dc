package backup

import (
	"strings"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff from current to candidate, with removed lines
// prefixed "-" and added lines "+". Identical records give "".
func Diff(current, candidate *model.State) (string, error) {
	before, err := Encode(current)
	if err != nil {
		return "", err
	}
	after, err := Encode(candidate)
	if err != nil {
		return "", err
	}
	return DiffText(string(before), string(after)), nil
}

// DiffText diffs two texts line by line.
func DiffText(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var mark string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			mark = "-"
		case diffmatchpatch.DiffInsert:
			mark = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(mark)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
