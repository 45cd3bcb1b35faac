package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question with citations",
	Long: `Searches the owner's index for the question and asks the configured LLM
to answer from the results. Claims in the answer cite passages as [1], [2]
and the cited passages are listed below it.

Use --record with --video to append the question and answer to the video's
conversation index.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntP("limit", "n", domain.DefaultSearchLimit, "maximum number of passages shown to the LLM")
	askCmd.Flags().String("title", "", "video title given to the LLM")
	askCmd.Flags().String("source-file", "", "file with primary source text, usually a transcript or summary")
	askCmd.Flags().Bool("record", false, "record the turn in the video's conversation index")
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	addFilterFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured: set an LLM provider with 'clipmind settings llm'")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}
	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	limit, _ := flags.GetInt("limit")
	title, _ := flags.GetString("title")
	record, _ := flags.GetBool("record")
	asJSON, _ := flags.GetBool("json")

	var source string
	if path, _ := flags.GetString("source-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading source file: %w", err)
		}
		source = string(data)
	}

	if record && filters.VideoID == "" {
		return errors.New("--record needs --video")
	}

	answer, err := answerService.Ask(commandContext(cmd), owner, domain.AskRequest{
		Question:   args[0],
		Title:      title,
		SourceText: source,
		Options:    domain.SearchOptions{Limit: limit, Filters: filters},
		RecordTurn: record,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Citations) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, c := range answer.Citations {
		where := fmt.Sprintf("%s/%s", c.VideoID, c.ContentType)
		if c.FormattedTimestamp != "" {
			where += " @ " + c.FormattedTimestamp
		}
		cmd.Printf("  [%d] %s\n", c.Ordinal, where)
		cmd.Printf("      %s\n", snippet(c.Content, 120))
	}
	return nil
}
