package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export characters as JSON",
		Long:  "Export every character with its gallery as a JSON array, in id order.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chars, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	printJSON(chars)
}
