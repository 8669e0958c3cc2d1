package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	googleconn "github.com/custodia-labs/bastion-cli/internal/connectors/google"
	"github.com/custodia-labs/bastion-cli/internal/connectors/google/youtube"
)

var youtubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Query YouTube",
}

var youtubeLikedCmd = &cobra.Command{
	Use:   "liked",
	Short: "List videos you have liked",
	RunE:  runYouTubeLiked,
}

var youtubeMax int64

func init() {
	youtubeLikedCmd.Flags().Int64Var(&youtubeMax, "max", 25, "Maximum number of videos")

	youtubeCmd.AddCommand(youtubeLikedCmd)
	rootCmd.AddCommand(youtubeCmd)
}

func runYouTubeLiked(cmd *cobra.Command, _ []string) error {
	provider, err := requireTokenProvider()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := youtube.NewClient(ctx, googleconn.NewTokenSource(ctx, provider), newGoogleInvoker(provider))
	if err != nil {
		return err
	}

	videos, err := client.ListLikedVideos(ctx, youtubeMax)
	if err != nil {
		return fmt.Errorf("list liked videos: %w", err)
	}
	if len(videos) == 0 {
		cmd.Println("No liked videos.")
		return nil
	}

	for _, v := range videos {
		s := youtube.Summarise(v)
		cmd.Printf("%-50.50s  %-25.25s  https://youtu.be/%s\n", s.Title, s.Channel, s.ID)
	}
	return nil
}
