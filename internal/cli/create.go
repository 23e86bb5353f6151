package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/sutra-power/internal/catalog"
	"github.com/rcliao/sutra-power/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a character",
		Long:  "Create a character. Chapter text comes from --chapter-file, or is piped via stdin.",
		Run:   runCreate,
	}

	cmd.Flags().StringP("name", "n", "", "Name (required)")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("image-url", "", "Main image URL")
	cmd.Flags().String("model-url", "", "3D model URL")
	cmd.Flags().String("chapter-file", "", "File holding the chapter text (HTML)")
	cmd.Flags().StringArrayP("image", "i", nil, "Gallery image URL (repeatable)")

	cmd.MarkFlagRequired("name")

	RootCmd.AddCommand(cmd)
}

func runCreate(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	imageURL, _ := cmd.Flags().GetString("image-url")
	modelURL, _ := cmd.Flags().GetString("model-url")
	chapterFile, _ := cmd.Flags().GetString("chapter-file")
	imageURLs, _ := cmd.Flags().GetStringArray("image")

	chapter, err := readChapter(chapterFile)
	if err != nil {
		exitErr("read chapter", err)
	}

	images := make([]model.Image, len(imageURLs))
	for i, u := range imageURLs {
		images[i] = model.Image{URL: u}
	}

	svc, s, _ := openCatalog(cmd)
	defer closeStore(s)

	c, err := svc.CreateCharacter(cmd.Context(), catalog.NewCharacter{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		ModelURL:    modelURL,
		ChapterText: chapter,
		Images:      images,
	})
	if err != nil {
		exitErr("create", err)
	}
	printJSON(c)
}

// readChapter reads path, or stdin when it is piped and path is empty.
func readChapter(path string) (string, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return "", nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
