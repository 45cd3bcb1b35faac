package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Manage the video catalog",
	Long: `The catalog records who owns each video and the category, collection
and favourite flags that search filters use.`,
}

var videoAddCmd = &cobra.Command{
	Use:   "add [video-id]",
	Short: "Register or update a video",
	Args:  cobra.ExactArgs(1),
	RunE:  runVideoAdd,
}

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage video collections",
}

var collectionAddCmd = &cobra.Command{
	Use:   "add [collection-id] [video-id]",
	Short: "Add a registered video to a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionAdd,
}

func init() {
	videoAddCmd.Flags().String("title", "", "video title")
	videoAddCmd.Flags().String("category", "", "category ID")
	videoAddCmd.Flags().Bool("favorite", false, "mark as favourite")
	videoCmd.AddCommand(videoAddCmd)
	collectionCmd.AddCommand(collectionAddCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runVideoAdd(cmd *cobra.Command, args []string) error {
	if videoRegistry == nil {
		return errors.New("video catalog not configured")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	title, _ := cmd.Flags().GetString("title")
	category, _ := cmd.Flags().GetString("category")
	favorite, _ := cmd.Flags().GetBool("favorite")

	err = videoRegistry.RegisterVideo(ctx, domain.VideoRef{
		ID:         args[0],
		Owner:      owner,
		Title:      title,
		CategoryID: category,
		IsFavorite: favorite,
	})
	if err != nil {
		return fmt.Errorf("registering video: %w", err)
	}
	cmd.Printf("Registered %s\n", args[0])
	return nil
}

func runCollectionAdd(cmd *cobra.Command, args []string) error {
	if videoRegistry == nil {
		return errors.New("video catalog not configured")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}

	if err := videoRegistry.AddToCollection(commandContext(cmd), owner, args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("video %s is not registered; run 'clipmind video add' first", args[1])
		}
		return fmt.Errorf("adding to collection: %w", err)
	}
	cmd.Printf("Added %s to %s\n", args[1], args[0])
	return nil
}
