package cli

import (
	"github.com/spf13/cobra"

	"cpd/internal/di"
	"cpd/internal/structures"
)

func newServeCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := di.InitApp(flags)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}
