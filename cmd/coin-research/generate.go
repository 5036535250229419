// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/coin-research/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a blog post, tweet thread, or newsletter from a saved report",
	Long: `Generate reads a research report written by "research --format json" (or an
archived record) and produces content from it. Blog posts and newsletters
need an AI key; without one a fallback post built from the report data is
printed instead.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("input", "-", "report file, or - for stdin")
	generateCmd.Flags().String("type", "blog", "content type: blog, twitter, or newsletter")
	generateCmd.Flags().String("style", "analytical", "blog style: analytical, technical, beginner-friendly, news")
	generateCmd.Flags().String("format", "text", "output format: text or json")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	typeName, _ := cmd.Flags().GetString("type")
	styleName, _ := cmd.Flags().GetString("style")
	format, _ := cmd.Flags().GetString("format")

	contentType, err := types.ParseContentType(typeName)
	if err != nil {
		return err
	}
	style, err := types.ParseStyle(styleName)
	if err != nil {
		return err
	}
	if err := checkFormat(format, "text", "json"); err != nil {
		return err
	}

	bundle, err := readBundle(input)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	var result any
	var text string
	switch contentType {
	case types.ContentTwitter:
		thread := a.generator.TwitterThread(bundle)
		result, text = thread, strings.Join(thread, "\n\n")
	case types.ContentNewsletter:
		nl := a.generator.Newsletter(ctx, bundle)
		result, text = nl, nl.Markdown()
	default:
		post := a.generator.CreatePost(ctx, bundle, style)
		if post.IsFallback() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", post.Error)
		}
		result, text = post, post.Markdown()
	}

	if format == "json" {
		return writeJSON(os.Stdout, result)
	}
	fmt.Println(text)
	return nil
}

// readBundle loads a report from path. Archived records, which nest the
// report under "research", are accepted too.
func readBundle(path string) (types.ResearchBundle, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.ResearchBundle{}, fmt.Errorf("reading report: %w", err)
	}
	return parseBundle(data)
}

func parseBundle(data []byte) (types.ResearchBundle, error) {
	var wrapper struct {
		Research *types.ResearchBundle `json:"research"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return types.ResearchBundle{}, fmt.Errorf("parsing report: %w", err)
	}
	if wrapper.Research != nil {
		return *wrapper.Research, nil
	}

	var bundle types.ResearchBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return types.ResearchBundle{}, fmt.Errorf("parsing report: %w", err)
	}
	if bundle.IsEmpty() {
		return types.ResearchBundle{}, fmt.Errorf("report contains no research data")
	}
	return bundle, nil
}
