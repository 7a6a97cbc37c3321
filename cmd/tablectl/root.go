package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/core/tables"
	"github.com/JonMunkholm/tablekit/internal/logging"
)

// session is the engine loaded for one command run.
type session struct {
	seedPath string
	users    *core.Collection[tables.User]
	service  *core.Service
}

// NewRootCmd builds the tablectl command tree.
func NewRootCmd() *cobra.Command {
	var (
		seedPath string
		logLevel string
	)
	s := &session{}

	cmd := &cobra.Command{
		Use:   "tablectl",
		Short: "Query and edit a users seed",
		Long: `tablectl loads a users seed into the table engine and runs one
operation against it. Without --seed the built-in users are used.`,
		Example: `  # Second page of admins, newest id first
  tablectl find --search-field role --search admin --sort id --desc --page 2

  # Remove two users from a seed file and save it
  tablectl delete --seed users.yaml --ids 3,8 --write`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.SetupWriter(cmd.ErrOrStderr(), logLevel, "text")
			return s.load(seedPath)
		},
	}

	cmd.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML seed file (default: built-in users)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	cmd.AddCommand(newFindCmd(s), newCountCmd(s), newDeleteCmd(s))
	return cmd
}

func (s *session) load(path string) error {
	users := tables.DefaultUsers()
	if path != "" {
		var err error
		if users, err = tables.LoadUsersFile(path); err != nil {
			return err
		}
	}

	reg := core.NewRegistry()
	s.seedPath = path
	s.users = tables.RegisterUsers(reg, users)
	s.service = core.NewService(reg)
	slog.Debug("seed loaded", "path", path, "rows", len(users))
	return nil
}

// userError prints the mapped message for err and returns err.
func userError(w io.Writer, err error) error {
	fmt.Fprintln(w, core.FormatUserError(err))
	return err
}
