package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	chapters := &cobra.Command{
		Use:   "chapters [id]",
		Short: "List chapters, or show one",
		Args:  cobra.MaximumNArgs(1),
		Run:   runChapters,
	}

	models := &cobra.Command{
		Use:   "models [id]",
		Short: "List 3D models, or show one",
		Args:  cobra.MaximumNArgs(1),
		Run:   runModels,
	}

	RootCmd.AddCommand(chapters, models)
}

func runChapters(cmd *cobra.Command, args []string) {
	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	if len(args) == 0 {
		chapters, err := svc.Chapters(cmd.Context())
		if err != nil {
			exitErr("chapters", err)
		}
		printJSON(chapters)
		return
	}

	id := parseID(args[0])
	ch, err := svc.Chapter(cmd.Context(), id)
	if err != nil {
		exitErr("chapter", err)
	}
	if ch == nil {
		exitErr("chapter", fmt.Errorf("chapter with id %d not found", id))
	}
	printJSON(ch)
}

func runModels(cmd *cobra.Command, args []string) {
	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	if len(args) == 0 {
		models, err := svc.Models(cmd.Context())
		if err != nil {
			exitErr("models", err)
		}
		printJSON(models)
		return
	}

	id := parseID(args[0])
	m, err := svc.Model(cmd.Context(), id)
	if err != nil {
		exitErr("model", err)
	}
	if m == nil {
		exitErr("model", fmt.Errorf("model with id %d not found", id))
	}
	printJSON(m)
}
