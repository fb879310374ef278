package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/volkanakbulut73/sohbetchat3/internal/admin"
	"github.com/volkanakbulut73/sohbetchat3/internal/configuration"
	"github.com/volkanakbulut73/sohbetchat3/internal/pocketbase"
	"github.com/volkanakbulut73/sohbetchat3/internal/store"
	"github.com/volkanakbulut73/sohbetchat3/internal/tui"
)

const configFilepath = "~/.config/sohbetchat/config.json"

var rootCmd = &cobra.Command{
	Use:     "sohbetchat",
	Short:   "A terminal client for multi-room AI persona chat",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	backend := pocketbase.New(config.BackendURL, config.Timeout())

	// Create the local transcript archive.
	archive, err := store.New(config.Chat.Database)
	if err != nil {
		panic(err)
	}
	// Ensure the archive is closed when the program exits normally.
	defer archive.Close()

	rootCmd.AddCommand(tui.NewCmd(config, backend, archive))
	rootCmd.AddCommand(admin.NewListRoomsCmd())
	rootCmd.AddCommand(admin.NewListUsersCmd(backend))
	rootCmd.AddCommand(admin.NewHistoryCmd(archive))

	// Bare invocation opens the chat surface.
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"chat"})
	}
	rootCmd.Execute()
}
