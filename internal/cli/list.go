package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List characters",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("names-only", false, "Only output id and name")

	RootCmd.AddCommand(cmd)
}

type characterSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Images   int    `json:"images"`
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	namesOnly, _ := cmd.Flags().GetBool("names-only")

	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	chars, err := svc.Characters(cmd.Context())
	if err != nil {
		exitErr("list", err)
	}
	if limit > 0 && len(chars) > limit {
		chars = chars[:limit]
	}

	if namesOnly {
		for _, c := range chars {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", c.ID, c.Name)
		}
		return
	}

	out := make([]characterSummary, len(chars))
	for i, c := range chars {
		out[i] = characterSummary{ID: c.ID, Name: c.Name, ImageURL: c.MainImage(), Images: len(c.Images)}
	}
	printJSON(out)
}
