package cli

import (
	"movie-records/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootOptions is shared by every subcommand.
type RootOptions struct {
	Config *config.Config
	Logger *logrus.Logger
}

// NewRootCommand creates the movie-records command tree.
func NewRootCommand(cfg *config.Config, log *logrus.Logger) *cobra.Command {
	opts := &RootOptions{
		Config: cfg,
		Logger: log,
	}

	cmd := &cobra.Command{
		Use:   "movie-records",
		Short: "Movie records envelope server",
		Long: `A movie catalog served over a JSON envelope protocol on TCP, with an
optional HTTP gateway in front of the same dispatcher.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSendCommand(opts))

	return cmd
}
