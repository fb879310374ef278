package admin

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volkanakbulut73/sohbetchat3/internal/cli"
	"github.com/volkanakbulut73/sohbetchat3/internal/pocketbase"
)

// NewListUsersCmd instantiates and returns the list-users command.
func NewListUsersCmd(backend *pocketbase.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list-users",
		Aliases: []string{"users"},
		Short:   "List the registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Listing the users collection requires an authenticated record.
			credentials, err := cli.PromptLogin()
			if err != nil {
				return err
			}
			if _, err := backend.Login(ctx, credentials.Email, credentials.Password); err != nil {
				return err
			}

			users, err := backend.ListUsers(ctx)
			if err != nil {
				return err
			}
			cli.Title("Registered Users (%d)", len(users))
			for _, user := range users {
				cli.Info("%s  %s\n", user.ID, user.Name)
				fmt.Printf("    %s\n", user.Avatar)
			}
			cli.Separator()
			return nil
		},
	}
	return cmd
}
