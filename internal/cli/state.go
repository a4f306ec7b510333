package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gwen2d/internal/editor"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

func (a *app) newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage entity animation states",
	}
	cmd.AddCommand(a.newStateAddCmd(), a.newStateListCmd())
	return cmd
}

func (a *app) newStateAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <entity> <state>",
		Short: "Add an empty state to an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.mutate(cmd.Context(), func(e *editor.Editor) error {
				return e.AddEntityState(args[0], args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added state %s to %s\n", args[1], args[0])
			return nil
		},
	}
}

func (a *app) newStateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity>",
		Short: "List the states of an entity by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), func(p *types.Project) error {
				if !p.HasEntity(args[0]) {
					return fmt.Errorf("%w: %q", types.ErrEntityNotFound, args[0])
				}
				out := cmd.OutOrStdout()
				for _, s := range p.GetStates(args[0]) {
					fmt.Fprintf(out, "%s  %s\n", s.Name, plural(len(s.Frames), "frame"))
				}
				return nil
			})
		},
	}
}
