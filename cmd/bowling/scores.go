package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bowling/internal/platform/tui"
	"github.com/vovakirdan/tui-bowling/internal/storage"
)

var (
	flagLimit       int
	flagStatsPlayer string
	flagRecent      bool
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the best final scores across finished games.

Examples:
  bowling scores
  bowling scores --limit 20
  bowling scores --player Ann
  bowling scores --recent
  bowling scores -i`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 0, "Number of entries (default from config)")
	scoresCmd.Flags().StringVar(&flagStatsPlayer, "player", "", "Show statistics for one player")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "List recent games, finished or not")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening games database: %w", err)
	}
	if store == nil {
		return errStorageDisabled
	}
	defer store.Close()

	limit := flagLimit
	if limit <= 0 {
		limit = cfg.Lanes.ScoreLimit
	}

	out := cmd.OutOrStdout()
	switch {
	case flagInteractive:
		// Get terminal size for the table layout
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScores(store, limit, width, height)
	case flagStatsPlayer != "":
		return printPlayerStats(out, store, flagStatsPlayer)
	case flagRecent:
		return printRecentGames(out, store, limit)
	default:
		return printTopScores(out, store, limit)
	}
}

func printTopScores(out io.Writer, store *storage.Store, limit int) error {
	scores, err := store.TopScores(limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "High Scores")
	fmt.Fprintln(out)
	if len(scores) == 0 {
		fmt.Fprintln(out, "No finished games yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'bowling play' to set the first high score!")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-16s  %-5s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Fprintf(out, "  %-4s  %-16s  %-5s  %s\n", "----", "------", "-----", "----")
	for i, e := range scores {
		fmt.Fprintf(out, "  %-4d  %-16s  %-5d  %s\n", i+1, e.PlayerName, e.Score, e.FinishedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printPlayerStats(out io.Writer, store *storage.Store, name string) error {
	stats, err := store.PlayerStats(name)
	if err != nil {
		return err
	}
	if stats.Games == 0 {
		fmt.Fprintf(out, "No finished games for %s.\n", name)
		return nil
	}

	fmt.Fprintf(out, "Player:     %s\n", stats.Name)
	fmt.Fprintf(out, "Games:      %d\n", stats.Games)
	fmt.Fprintf(out, "High score: %d\n", stats.HighScore)
	fmt.Fprintf(out, "Average:    %.1f\n", stats.AvgScore)
	fmt.Fprintf(out, "Strikes:    %d\n", stats.Strikes)
	fmt.Fprintf(out, "Last game:  %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	return nil
}

func printRecentGames(out io.Writer, store *storage.Store, limit int) error {
	games, err := store.RecentGames(limit)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(out, "No games recorded yet.")
		return nil
	}

	for _, g := range games {
		state := "finished " + g.FinishedAt.Format("2006-01-02 15:04")
		if g.FinishedAt.IsZero() {
			state = fmt.Sprintf("in progress, %d rolls (bowling play --resume %s)", g.Rolls, g.GameID)
		}
		fmt.Fprintf(out, "%s  %s  %s\n", g.GameID, strings.Join(g.Players, ", "), state)
	}
	return nil
}
