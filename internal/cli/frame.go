package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gwen2d/internal/editor"
)

func (a *app) newFrameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Manage state frames",
	}
	cmd.AddCommand(a.newFrameImportCmd())
	return cmd
}

func (a *app) newFrameImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <entity> <state> <image>...",
		Short: "Append image files to a state as frames",
		Long: "Decode each image (PNG, JPEG, GIF, BMP, TIFF or WebP) and append it to\n" +
			"the state in argument order. Nothing is saved if any image fails.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, state, images := args[0], args[1], args[2:]
			err := a.mutate(cmd.Context(), func(e *editor.Editor) error {
				for _, path := range images {
					if err := e.ImportFrame(entity, state, path); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s into %s/%s\n", plural(len(images), "frame"), entity, state)
			return nil
		},
	}
}
