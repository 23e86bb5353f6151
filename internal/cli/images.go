package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/sutra-power/internal/catalog"
)

func init() {
	add := &cobra.Command{
		Use:   "add-image <id>",
		Short: "Add an image to a character's gallery",
		Args:  cobra.ExactArgs(1),
		Run:   runAddImage,
	}
	add.Flags().StringP("url", "u", "", "Image URL (required)")
	add.Flags().String("caption", "", "Caption")
	add.Flags().Bool("main", false, "Make it the main image")
	add.MarkFlagRequired("url")

	rm := &cobra.Command{
		Use:   "rm-image <id> <image-id>",
		Short: "Remove an image from a character's gallery",
		Long:  "Remove an image. Removing the main image promotes the next gallery image.",
		Args:  cobra.ExactArgs(2),
		Run:   runRmImage,
	}

	RootCmd.AddCommand(add, rm)
}

func runAddImage(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	url, _ := cmd.Flags().GetString("url")
	caption, _ := cmd.Flags().GetString("caption")
	main, _ := cmd.Flags().GetBool("main")

	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	c, err := svc.AddCharacterImage(cmd.Context(), id, catalog.NewImage{
		URL:       url,
		Caption:   caption,
		SetAsMain: main,
	})
	if err != nil {
		exitErr("add image", err)
	}
	printJSON(c)
}

func runRmImage(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	imageID := parseID(args[1])

	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	c, err := svc.RemoveCharacterImage(cmd.Context(), id, imageID)
	if err != nil {
		exitErr("remove image", err)
	}
	printJSON(c)
}
