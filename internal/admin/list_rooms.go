// Package admin holds the non-interactive maintenance commands: inspecting
// the room catalog, the registered users and the local transcript archive.
package admin

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/volkanakbulut73/sohbetchat3/internal/cli"
	"github.com/volkanakbulut73/sohbetchat3/internal/registry"
)

// NewListRoomsCmd instantiates and returns the list-rooms command.
func NewListRoomsCmd() *cobra.Command {
	var opts struct {
		Verbose bool
	}

	cmd := &cobra.Command{
		Use:     "list-rooms",
		Aliases: []string{"rooms"},
		Short:   "List the public chat rooms",
		Run: func(cmd *cobra.Command, args []string) {
			cli.Title("Public Rooms (%d)", len(registry.Rooms))
			for _, room := range registry.Rooms {
				bots := make([]string, 0, len(room.Participants))
				for _, bot := range room.Bots() {
					bots = append(bots, bot.Name)
				}
				cli.Info("%s  %s\n", room.ID, room.Name)
				fmt.Printf("    %s\n", room.Topic)
				fmt.Printf("    bots: %s\n", strings.Join(bots, ", "))
				if opts.Verbose {
					fmt.Printf("    %s\n", room.Description)
				}
			}
			cli.Separator()
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include room descriptions")
	return cmd
}
