package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a character with its gallery",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	c, err := svc.Character(cmd.Context(), id)
	if err != nil {
		exitErr("get", err)
	}
	if c == nil {
		exitErr("get", fmt.Errorf("character with id %d not found", id))
	}
	printJSON(c)
}
