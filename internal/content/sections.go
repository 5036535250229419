// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"strings"

	"github.com/pdiddy/coin-research/pkg/types"
)

// introductionTitle names the section holding text before the first heading.
const introductionTitle = "Introduction"

// SplitSections splits generated markdown at lines starting with '#'. The
// heading text, stripped of '#' on both ends, becomes the section title.
// Sections that collect no lines at all are dropped, which covers
// consecutive headings and a trailing heading.
func SplitSections(text string) []types.Section {
	var sections []types.Section
	title := introductionTitle
	var body strings.Builder

	flush := func() {
		if body.Len() > 0 {
			sections = append(sections, types.Section{Title: title, Content: body.String()})
		}
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			flush()
			title = strings.TrimSpace(strings.Trim(line, "#"))
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()
	return sections
}

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
