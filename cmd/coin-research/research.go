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
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coin-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research <coin>",
	Short: "Research a coin and print the report",
	Long: `Research fetches market data, coin metadata, news, social mentions and web
analysis for a coin concurrently and prints the combined report. Sources that
fail are reported inline; the report itself never fails for a named coin.

With --ai a blog post is generated from the report. With --save the report
is written to the configured archive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Bool("ai", false, "generate a blog post from the report")
	researchCmd.Flags().String("style", "analytical", "blog style: analytical, technical, beginner-friendly, news")
	researchCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	researchCmd.Flags().Bool("save", false, "save the report to the archive")

	rootCmd.AddCommand(researchCmd)
}

// researchOutput is the report written by the json and yaml formats.
type researchOutput struct {
	types.ResearchBundle
	AIBlog *types.GeneratedPost `json:"ai_blog,omitempty"`
}

func runResearch(cmd *cobra.Command, args []string) error {
	coin := strings.Join(args, " ")
	withAI, _ := cmd.Flags().GetBool("ai")
	save, _ := cmd.Flags().GetBool("save")
	format, _ := cmd.Flags().GetString("format")
	styleName, _ := cmd.Flags().GetString("style")

	style, err := types.ParseStyle(styleName)
	if err != nil {
		return err
	}
	if err := checkFormat(format, "text", "json", "yaml"); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	bundle, err := a.aggregator.Analyze(ctx, coin)
	if err != nil {
		return err
	}

	out := researchOutput{ResearchBundle: bundle}
	if withAI {
		post := a.generator.CreatePost(ctx, bundle, style)
		out.AIBlog = &post
	}

	if save {
		sink, err := openArchive(cfg)
		if err != nil {
			return err
		}
		defer sink.Close()
		id, err := sink.Save(ctx, bundle, out.AIBlog)
		if err != nil {
			return fmt.Errorf("saving research: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved %s (%s)\n", id, sink.Name())
	}

	switch format {
	case "json":
		return writeJSON(os.Stdout, out)
	case "yaml":
		return writeYAML(os.Stdout, out)
	default:
		writeReport(os.Stdout, out)
		return nil
	}
}

func checkFormat(format string, valid ...string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q: use %s", format, strings.Join(valid, ", "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML renders v through its JSON form so field names and the slot
// encoding match the API output.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// writeReport prints a human-readable report.
func writeReport(w io.Writer, out researchOutput) {
	b := out.ResearchBundle
	fmt.Fprintf(w, "%s research report (%s)\n", b.CoinName, b.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, b.Summary)
	fmt.Fprintln(w)

	if m, ok := b.Market.Value(); ok {
		fmt.Fprintf(w, "Market (%s, %d pairs)\n", m.Source, m.PairsFound)
		fmt.Fprintf(w, "  Price:      $%s (%s%% 24h)\n", m.PriceUSD, m.PriceChange24h)
		fmt.Fprintf(w, "  Volume 24h: $%s\n", m.Volume24h)
		fmt.Fprintf(w, "  Liquidity:  $%s\n", m.LiquidityUSD)
		fmt.Fprintf(w, "  Pair:       %s/%s on %s (%s)\n", m.BaseToken.Symbol, m.QuoteToken.Symbol, m.DEX, m.Chain)
	} else {
		fmt.Fprintf(w, "Market: %s\n", b.Market.Err())
	}

	if id, ok := b.Identity.Value(); ok {
		rank := "N/A"
		if id.MarketCapRank != nil {
			rank = fmt.Sprintf("#%d", *id.MarketCapRank)
		}
		fmt.Fprintf(w, "Coin: %s (%s), market cap rank %s\n", id.Name, id.Symbol, rank)
	} else {
		fmt.Fprintf(w, "Coin: %s\n", b.Identity.Err())
	}

	writeResults(w, "News", b.News)
	writeResults(w, "Social", b.Social)
	writeResults(w, "Web", b.Web)

	if p := out.AIBlog; p != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		if p.IsFallback() {
			fmt.Fprintf(w, "Blog post unavailable: %s\n\n", p.Error)
		}
		fmt.Fprintln(w, p.Markdown())
	}
}

func writeResults(w io.Writer, label string, results []types.SearchResult) {
	fmt.Fprintf(w, "\n%s:\n", label)
	if len(results) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, r := range results {
		if r.IsError() {
			fmt.Fprintf(w, "  ! %s\n", r.Error)
			continue
		}
		fmt.Fprintf(w, "  - %s\n    %s\n", r.Title, r.Link)
	}
}
