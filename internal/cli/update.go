package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/sutra-power/internal/catalog"
	"github.com/rcliao/sutra-power/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a character",
		Long: "Update the fields given as flags; other fields keep their values. " +
			"--image replaces the whole gallery.",
		Args: cobra.ExactArgs(1),
		Run:  runUpdate,
	}

	cmd.Flags().StringP("name", "n", "", "Name")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("image-url", "", "Main image URL (empty clears it)")
	cmd.Flags().String("model-url", "", "3D model URL")
	cmd.Flags().String("chapter-file", "", "File holding the chapter text (HTML)")
	cmd.Flags().StringArrayP("image", "i", nil, "Gallery image URL (repeatable, replaces the gallery)")
	cmd.Flags().Bool("clear-images", false, "Remove every gallery image")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	flags := cmd.Flags()

	var patch catalog.CharacterPatch
	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	patch.Name = stringFlag("name")
	patch.Description = stringFlag("description")
	patch.ImageURL = stringFlag("image-url")
	patch.ModelURL = stringFlag("model-url")

	if flags.Changed("chapter-file") {
		path, _ := flags.GetString("chapter-file")
		chapter, err := readChapter(path)
		if err != nil {
			exitErr("read chapter", err)
		}
		patch.ChapterText = &chapter
	}

	clearImages, _ := flags.GetBool("clear-images")
	if flags.Changed("image") || clearImages {
		urls, _ := flags.GetStringArray("image")
		images := make([]model.Image, len(urls))
		for i, u := range urls {
			images[i] = model.Image{URL: u}
		}
		patch.Images = &images
	}

	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	c, err := svc.UpdateCharacter(cmd.Context(), id, patch)
	if err != nil {
		exitErr("update", err)
	}
	printJSON(c)
}
