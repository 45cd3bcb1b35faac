package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyReader == nil {
		return errors.New("search history not configured")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := historyReader.Recent(commandContext(cmd), owner, limit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No searches yet.")
		return nil
	}

	for _, e := range entries {
		when := time.Unix(e.CreatedAt, 0).Format(time.DateTime)
		cmd.Printf("  %s  %-40q %d results%s\n", when, e.Query, e.ResultCount, describeFilters(e.Filters))
	}
	return nil
}

func describeFilters(f domain.SearchFilters) string {
	var parts []string
	if f.VideoID != "" {
		parts = append(parts, "video="+f.VideoID)
	}
	for _, ct := range f.ContentTypes {
		parts = append(parts, "type="+string(ct))
	}
	if f.CategoryID != "" {
		parts = append(parts, "category="+f.CategoryID)
	}
	if f.CollectionID != "" {
		parts = append(parts, "collection="+f.CollectionID)
	}
	if f.IsFavorite != nil {
		parts = append(parts, fmt.Sprintf("favorite=%t", *f.IsFavorite))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  [" + strings.Join(parts, " ") + "]"
}
