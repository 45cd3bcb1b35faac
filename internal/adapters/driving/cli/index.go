package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index [video-id] [file]",
	Short: "Index video content",
	Long: `Indexes content for a video. Any existing chunks of the same content
type are replaced.

Index a single file with --type (the format is taken from the extension
unless --format is given, and "-" reads stdin):
  clipmind index v1 talk.srt --type transcript

Or index several content types at once:
  clipmind index v1 --transcript talk.vtt --summary summary.md --notes notes.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIndex,
}

var converseCmd = &cobra.Command{
	Use:   "converse [video-id] [question] [answer]",
	Short: "Append a question and answer to a video's conversation index",
	Args:  cobra.ExactArgs(3),
	RunE:  runConverse,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [video-id]",
	Short: "Delete every indexed chunk of a video",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	indexCmd.Flags().String("type", "", "content type of the file (transcript, summary, notes, conversation)")
	indexCmd.Flags().String("format", "", "content format (srt, vtt, json, markdown, text); defaults to the file extension")
	indexCmd.Flags().String("transcript", "", "transcript file")
	indexCmd.Flags().String("summary", "", "summary file")
	indexCmd.Flags().String("notes", "", "notes file")
	indexCmd.Flags().Bool("json", false, "output reports as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(converseCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	videoID := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")

	if len(args) == 2 {
		typ, _ := cmd.Flags().GetString("type")
		if typ == "" {
			return errors.New("--type is required when indexing a single file")
		}
		ct, err := domain.ParseContentType(typ)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		raw, err := readContent(cmd, args[1], format)
		if err != nil {
			return err
		}
		raw.VideoID = videoID
		raw.ContentType = ct

		report, err := indexingService.IndexContent(ctx, owner, raw)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
		return printReports(cmd, asJSON, *report)
	}

	content := domain.VideoContent{VideoID: videoID}
	targets := []struct {
		flag string
		dst  *domain.RawContent
	}{
		{"transcript", &content.Transcript},
		{"summary", &content.Summary},
		{"notes", &content.Notes},
	}
	found := false
	for _, t := range targets {
		path, _ := cmd.Flags().GetString(t.flag)
		if path == "" {
			continue
		}
		raw, err := readContent(cmd, path, "")
		if err != nil {
			return err
		}
		*t.dst = raw
		found = true
	}
	if !found {
		return errors.New("nothing to index: pass a file with --type, or --transcript, --summary or --notes")
	}

	reports, err := indexingService.IndexVideo(ctx, owner, content)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return printReports(cmd, asJSON, reports...)
}

// readContent loads path, or stdin for "-", and infers the format from the
// extension when none is given.
func readContent(cmd *cobra.Command, path, format string) (domain.RawContent, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.RawContent{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	return domain.RawContent{Format: format, Content: data}, nil
}

func printReports(cmd *cobra.Command, asJSON bool, reports ...domain.IndexReport) error {
	if asJSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal reports: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, r := range reports {
		cmd.Printf("%s/%s: %d chunks, %d indexed, %d replaced", r.VideoID, r.ContentType, r.Chunks, r.Indexed, r.Deleted)
		if r.FailedBatches > 0 {
			cmd.Printf(", %d failed batches", r.FailedBatches)
		}
		cmd.Println()
		if r.Err != nil {
			cmd.Printf("  error: %v\n", r.Err)
		}
	}
	return nil
}

func runConverse(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}

	report, err := indexingService.AppendConversation(commandContext(cmd), owner, args[0],
		domain.ConversationTurn{Question: args[1], Answer: args[2]})
	if err != nil {
		return fmt.Errorf("recording conversation failed: %w", err)
	}
	return printReports(cmd, false, *report)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}

	n, err := indexingService.DeleteVideo(commandContext(cmd), owner, args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted %d chunks of %s\n", n, args[0])
	return nil
}
