// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// Style selects the tone and structure of a generated post.
type Style string

const (
	StyleAnalytical       Style = "analytical"
	StyleTechnical        Style = "technical"
	StyleBeginnerFriendly Style = "beginner-friendly"
	StyleNews             Style = "news"
)

// Styles lists the supported styles in display order.
var Styles = []Style{StyleAnalytical, StyleTechnical, StyleBeginnerFriendly, StyleNews}

// StyleDescriptions holds a one-line description per style.
var StyleDescriptions = map[Style]string{
	StyleAnalytical:       "In-depth analysis with charts and data",
	StyleTechnical:        "Technical analysis for crypto enthusiasts",
	StyleBeginnerFriendly: "Easy-to-understand explanations for newcomers",
	StyleNews:             "News-style reporting with current events",
}

// ParseStyle normalizes a style name. An empty name means analytical and
// "beginner" is accepted for beginner-friendly.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StyleAnalytical):
		return StyleAnalytical, nil
	case string(StyleTechnical):
		return StyleTechnical, nil
	case string(StyleBeginnerFriendly), "beginner":
		return StyleBeginnerFriendly, nil
	case string(StyleNews):
		return StyleNews, nil
	default:
		return "", fmt.Errorf("invalid style %q (valid: analytical, technical, beginner-friendly, news)", s)
	}
}

// ContentType selects the generated output format.
type ContentType string

const (
	ContentBlog       ContentType = "blog"
	ContentTwitter    ContentType = "twitter"
	ContentNewsletter ContentType = "newsletter"
)

// ParseContentType validates a content type name; empty means blog.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ContentBlog:
		return ContentBlog, nil
	case ContentTwitter:
		return ContentTwitter, nil
	case ContentNewsletter:
		return ContentNewsletter, nil
	default:
		return "", fmt.Errorf("invalid content type %q (valid: blog, twitter, newsletter)", s)
	}
}

// Section is one heading-delimited part of a generated post.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GeneratedPost is the structured result of one content generation request.
// A post with Error set is a fallback post built from static text.
type GeneratedPost struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CoinName    string    `json:"coin_name,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Style       Style     `json:"style,omitempty"`
	WordCount   int       `json:"word_count,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
	KeyInsights []string  `json:"key_insights,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// IsFallback reports whether the post was built without the model.
func (p GeneratedPost) IsFallback() bool { return p.Error != "" }

// Markdown renders the post as a downloadable Markdown document.
func (p GeneratedPost) Markdown() string {
	return fmt.Sprintf("# %s\n\n%s", p.Title, p.Content)
}

// Newsletter wraps a news-style post for email distribution.
type Newsletter struct {
	Subject     string    `json:"subject"`
	PreviewText string    `json:"preview_text"`
	Content     string    `json:"content"`
	KeyPoints   []string  `json:"key_points"`
	Timestamp   time.Time `json:"timestamp"`
}

// Markdown renders the newsletter with its key points as a bullet list.
func (n Newsletter) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", n.Subject)
	fmt.Fprintf(&b, "Preview: %s\n\n", n.PreviewText)
	b.WriteString("## Key Points\n\n")
	for _, p := range n.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("\n")
	b.WriteString(n.Content)
	return b.String()
}
