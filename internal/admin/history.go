package admin

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volkanakbulut73/sohbetchat3/internal/cli"
	"github.com/volkanakbulut73/sohbetchat3/internal/store"
)

// NewHistoryCmd instantiates and returns the history command, which reads
// the local transcript archive and never talks to the backend.
func NewHistoryCmd(archive *store.Store) *cobra.Command {
	var opts struct {
		Limit int
	}

	cmd := &cobra.Command{
		Use:   "history [room]",
		Short: "Show archived room transcripts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				rooms, err := archive.Rooms()
				if err != nil {
					return err
				}
				cli.Title("Archived Rooms (%d)", len(rooms))
				for _, room := range rooms {
					cli.Info("%s\n", room)
				}
				cli.Separator()
				return nil
			}

			roomID := args[0]
			messages, err := archive.ListRoomMessages(roomID, opts.Limit)
			if err != nil {
				return err
			}
			cli.Title("%s (%d messages)", roomID, len(messages))
			for _, message := range messages {
				fmt.Printf("%s  %s: %s\n",
					message.Timestamp.Local().Format("2006-01-02 15:04"),
					message.SenderName,
					message.PlainText(),
				)
			}
			cli.Separator()
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Maximum messages to print (0 for all)")
	return cmd
}
