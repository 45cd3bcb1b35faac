package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed videos",
	Long: `Performs semantic search across the owner's indexed videos.
The query is embedded and compared with every candidate chunk by cosine
similarity; results below the similarity threshold are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	addFilterFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

// addFilterFlags registers the search filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("video", "", "restrict to one video")
	cmd.Flags().StringSlice("type", nil, "restrict to content types (transcript, summary, notes, conversation)")
	cmd.Flags().String("category", "", "restrict to videos in a category")
	cmd.Flags().String("collection", "", "restrict to videos in a collection")
	cmd.Flags().Bool("favorite", false, "restrict to favourite videos (--favorite=false for the rest)")
}

// filtersFromFlags reads the flags registered by addFilterFlags.
func filtersFromFlags(cmd *cobra.Command) (domain.SearchFilters, error) {
	var f domain.SearchFilters
	flags := cmd.Flags()

	f.VideoID, _ = flags.GetString("video")
	f.CategoryID, _ = flags.GetString("category")
	f.CollectionID, _ = flags.GetString("collection")

	types, _ := flags.GetStringSlice("type")
	for _, t := range types {
		ct, err := domain.ParseContentType(t)
		if err != nil {
			return domain.SearchFilters{}, err
		}
		f.ContentTypes = append(f.ContentTypes, ct)
	}

	if flags.Changed("favorite") {
		fav, _ := flags.GetBool("favorite")
		f.IsFavorite = &fav
	}
	return f, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}
	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}

	results, err := searchService.Search(commandContext(cmd), owner, args[0], domain.SearchOptions{
		Limit:   searchLimit,
		Filters: filters,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

type resultView struct {
	ChunkID            string             `json:"chunk_id"`
	VideoID            string             `json:"video_id"`
	ContentType        domain.ContentType `json:"content_type"`
	ChunkIndex         int                `json:"chunk_index"`
	Content            string             `json:"content"`
	Similarity         float64            `json:"similarity"`
	FormattedTimestamp string             `json:"formatted_timestamp,omitempty"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	views := make([]resultView, len(results))
	for i := range results {
		c := &results[i].Chunk
		views[i] = resultView{
			ChunkID:            c.ID,
			VideoID:            c.VideoID,
			ContentType:        c.ContentType,
			ChunkIndex:         c.ChunkIndex,
			Content:            c.Content,
			Similarity:         results[i].Similarity,
			FormattedTimestamp: c.FormattedTimestamp(),
		}
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		c := &results[i].Chunk
		// Format: [N] video/type#index @ 1:23 (0.87)
		where := fmt.Sprintf("%s/%s#%d", c.VideoID, c.ContentType, c.ChunkIndex)
		if ts := c.FormattedTimestamp(); ts != "" {
			where += " @ " + ts
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, where, results[i].Similarity)
		cmd.Printf("      %s\n", snippet(c.Content, 160))
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and cuts s to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
