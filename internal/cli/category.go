package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gwen2d/internal/editor"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

func (a *app) newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage entity categories",
	}
	cmd.AddCommand(a.newCategoryAddCmd(), a.newCategoryListCmd())
	return cmd
}

func (a *app) newCategoryAddCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.mutate(cmd.Context(), func(e *editor.Editor) error {
				return e.AddCategoryWithSize(args[0], width, height)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added category %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "nominal sprite width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "nominal sprite height in pixels")
	return cmd
}

func (a *app) newCategoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), func(p *types.Project) error {
				out := cmd.OutOrStdout()
				for _, c := range p.Categories() {
					fmt.Fprintf(out, "%s%s\n", c.Name, sizeSuffix(c.Width, c.Height))
				}
				return nil
			})
		},
	}
}

// sizeSuffix renders "  WxH", or nothing for an unset size.
func sizeSuffix(width, height int) string {
	if width == 0 && height == 0 {
		return ""
	}
	return fmt.Sprintf("  %dx%d", width, height)
}
