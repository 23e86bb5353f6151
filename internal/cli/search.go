package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search characters",
		Long:  "Search names, descriptions, chapter text and image captions (case-insensitive substring).",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	chars, err := svc.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		exitErr("search", err)
	}
	printJSON(chars)
}
