// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/coin-research/pkg/types"
)

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.Section
	}{
		{
			name: "introduction before first heading",
			text: "Opening line.\n# Overview\nBody one.\n## Risks ##\nBody two.",
			want: []types.Section{
				{Title: "Introduction", Content: "Opening line.\n"},
				{Title: "Overview", Content: "Body one.\n"},
				{Title: "Risks", Content: "Body two.\n"},
			},
		},
		{
			name: "consecutive headings drop the empty one",
			text: "# Title\n## Market Data\n- Price: $1\n",
			want: []types.Section{
				{Title: "Market Data", Content: "- Price: $1\n\n"},
			},
		},
		{
			name: "trailing heading is dropped",
			text: "# Body\ntext\n# Conclusion",
			want: []types.Section{
				{Title: "Body", Content: "text\n"},
			},
		},
		{
			name: "no headings",
			text: "just text",
			want: []types.Section{{Title: "Introduction", Content: "just text\n"}},
		},
		{
			name: "indented hash is not a heading",
			text: "  # not a heading",
			want: []types.Section{{Title: "Introduction", Content: "  # not a heading\n"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSections(tt.text))
		})
	}
}

func TestSplitSectionsOnlyHeading(t *testing.T) {
	// A lone heading still collects the empty line that follows it.
	assert.Equal(t, []types.Section{{Title: "Only", Content: "\n"}}, SplitSections("# Only\n"))
	assert.Empty(t, SplitSections("# Only"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount(" \n\t "))
	assert.Equal(t, 5, WordCount("# Title\n\nTwo  words\tand"))
}
