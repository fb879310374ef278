package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/volkanakbulut73/sohbetchat3/internal/cli"
	"github.com/volkanakbulut73/sohbetchat3/internal/configuration"
	"github.com/volkanakbulut73/sohbetchat3/internal/pocketbase"
	"github.com/volkanakbulut73/sohbetchat3/internal/reconciler"
	"github.com/volkanakbulut73/sohbetchat3/internal/registry"
	"github.com/volkanakbulut73/sohbetchat3/internal/session"
	"github.com/volkanakbulut73/sohbetchat3/internal/store"
	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config, backend *pocketbase.Client, archive *store.Store) *cobra.Command {
	var opts struct {
		Room     string
		Register bool
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the chat surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			self, err := authenticate(ctx, backend, opts.Register)
			if err != nil {
				return err
			}

			room, ok := registry.Room(opts.Room)
			if !ok {
				return errors.Errorf("unknown room %q", opts.Room)
			}

			sessionManager := session.New(self)
			sessionManager.OpenRoom(room)

			var recArchive reconciler.Archive
			if archive != nil {
				recArchive = archive
			}
			model := New(ctx, config, backend, sessionManager, recArchive)

			p := tea.NewProgram(
				model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			model.SetProgram(p)

			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "running chat")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Room, "room", "r", registry.Rooms[0].ID, "Room to open on startup")
	cmd.Flags().BoolVar(&opts.Register, "register", false, "Register a new account instead of logging in")
	return cmd
}

// authenticate logs in, or registers first when asked to.
func authenticate(ctx context.Context, backend *pocketbase.Client, register bool) (types.User, error) {
	if register {
		credentials, err := cli.PromptRegister()
		if err != nil {
			return types.User{}, errors.Wrap(err, "prompting registration")
		}
		user, err := backend.Register(ctx, credentials.Email, credentials.Password, credentials.Name)
		if err != nil {
			return types.User{}, errors.Wrap(err, "registering")
		}
		cli.Info("Welcome, %s!\n", user.Name)
		return user, nil
	}

	credentials, err := cli.PromptLogin()
	if err != nil {
		return types.User{}, errors.Wrap(err, "prompting login")
	}
	user, err := backend.Login(ctx, credentials.Email, credentials.Password)
	if err != nil {
		return types.User{}, errors.Wrap(err, "logging in")
	}
	return user, nil
}
