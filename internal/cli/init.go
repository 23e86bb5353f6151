package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Prepare storage",
		Long:  "Open the database, import legacy data once and seed an empty catalog. Prints the startup status.",
		Run:   runInit,
	}

	RootCmd.AddCommand(cmd)
}

func runInit(cmd *cobra.Command, args []string) {
	_, s, status := openCatalog(cmd)
	defer closeStore(s)

	printJSON(status)
}
