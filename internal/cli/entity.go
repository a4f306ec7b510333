package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gwen2d/internal/editor"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

func (a *app) newEntityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Manage entities",
	}
	cmd.AddCommand(a.newEntityAddCmd(), a.newEntityListCmd())
	return cmd
}

func (a *app) newEntityAddCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an entity to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.mutate(cmd.Context(), func(e *editor.Editor) error {
				return e.AddEntity(category, args[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added entity %s to %s\n", args[0], category)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", types.DefaultCategoryName, "category of the new entity")
	return cmd
}

func (a *app) newEntityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entities by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), func(p *types.Project) error {
				out := cmd.OutOrStdout()
				for _, e := range p.Entities() {
					fmt.Fprintf(out, "%s  (%s)%s  %s\n",
						e.Name, e.Category.Name, sizeSuffix(e.Width, e.Height), plural(len(e.States), "state"))
				}
				return nil
			})
		},
	}
}
