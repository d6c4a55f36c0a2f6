package command

import (
	"github.com/spf13/cobra"

	"comicshare/cmd/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		return app.Migrate(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
