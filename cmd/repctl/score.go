package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"landlord_rep/internal/app"
	"landlord_rep/internal/domain"
	"landlord_rep/internal/reputation"
	"landlord_rep/internal/storage/memory"
)

type scoreOptions struct {
	root   string
	files  []string
	now    string
	query  string
	region string
	json   bool
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score [pattern...]",
		Short: "Evaluate review fixtures offline",
		Long: `score loads YAML fixtures into an in-memory directory and prints each
landlord's rating, tier and credential as of --now.

Patterns are doublestar globs relative to --root, e.g. "fixtures/**/*.yaml".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			return runScore(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory the patterns are relative to")
	cmd.Flags().StringSliceVarP(&opts.files, "files", "f", nil, "fixture glob patterns")
	cmd.Flags().StringVar(&opts.now, "now", "", "evaluation time, RFC 3339 (default: current time)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "resolve a search query instead of listing everyone")
	cmd.Flags().StringVar(&opts.region, "region", "", "region filter")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	return cmd
}

func runScore(ctx context.Context, w io.Writer, opts *scoreOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(opts.files) == 0 {
		return fmt.Errorf("no fixture patterns given")
	}
	now := time.Now().UTC()
	if opts.now != "" {
		t, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		now = t.UTC()
	}

	paths, err := findFixtures(opts.root, opts.files)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no fixtures match %s", strings.Join(opts.files, ", "))
	}
	fx, err := readFixtures(paths)
	if err != nil {
		return err
	}

	repo := memory.New()
	nl, nr, err := loadFixtures(ctx, repo, fx, now)
	if err != nil {
		return err
	}
	log.Debug().Int("files", len(paths)).Int("landlords", nl).Int("reviews", nr).Msg("fixtures loaded")

	q := app.NewQueryService(repo, nil, 0, domain.ClockFunc(func() time.Time { return now }))
	var (
		entries []app.Entry
		mode    reputation.Mode
	)
	if opts.query != "" {
		res, err := q.Search(ctx, opts.query, opts.region)
		if err != nil {
			return err
		}
		entries, mode = res.Results, res.Mode
	} else {
		entries, err = q.ListLandlords(ctx, opts.region)
		if err != nil {
			return err
		}
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if mode != "" {
			return enc.Encode(app.SearchResult{Mode: mode, Results: entries})
		}
		return enc.Encode(entries)
	}
	printScores(w, entries, mode, now)
	return nil
}

type scoreStyles struct {
	header lipgloss.Style
	green  lipgloss.Style
	yellow lipgloss.Style
	red    lipgloss.Style
	dim    lipgloss.Style
}

func newScoreStyles() scoreStyles {
	return scoreStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		green:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		red:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (s scoreStyles) tier(t reputation.Tier) lipgloss.Style {
	switch t {
	case reputation.TierGreen:
		return s.green
	case reputation.TierYellow:
		return s.yellow
	case reputation.TierRed:
		return s.red
	default:
		return s.dim
	}
}

func printScores(w io.Writer, entries []app.Entry, mode reputation.Mode, now time.Time) {
	st := newScoreStyles()
	header := fmt.Sprintf("Reputation as of %s", now.Format(time.RFC3339))
	if mode != "" {
		header += fmt.Sprintf(" (%s match)", mode)
	}
	fmt.Fprintln(w, st.header.Render(header))

	if len(entries) == 0 {
		fmt.Fprintln(w, st.dim.Render("no landlords"))
		return
	}
	for _, e := range entries {
		rep := e.Reputation
		score := "  - "
		if rep.RoundedAverage != nil {
			score = fmt.Sprintf("%4.1f", *rep.RoundedAverage)
		}
		line := fmt.Sprintf("%-32s %s %s %-14s %-12s %3d reviews",
			truncate(e.Landlord.Name, 32),
			score,
			starBar(rep.Stars),
			rep.Label,
			rep.Credential,
			rep.Count,
		)
		if rep.Excluded > 0 {
			line += fmt.Sprintf(" (%d excluded)", rep.Excluded)
		}
		fmt.Fprintln(w, st.tier(rep.Tier).Render(line))
	}
}

// starBar draws each star as full, half or empty from its fill fraction.
func starBar(fill [reputation.StarCount]float64) string {
	var b strings.Builder
	for _, f := range fill {
		switch {
		case f >= 0.75:
			b.WriteRune('★')
		case f >= 0.25:
			b.WriteRune('⯪')
		default:
			b.WriteRune('☆')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
