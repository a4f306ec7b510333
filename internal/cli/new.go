package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newNewCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty project",
		Long:  "Create <dir>/<name>.db holding an empty project with the default category.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			projectDir, err := a.projectDir(dir)
			if err != nil {
				return err
			}
			s, err := a.newSession()
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, s.close()) }()

			if err := s.editor.CreateProject(projectDir, args[0]).Wait(cmd.Context()); err != nil {
				return err
			}
			s.editor.Update()
			fmt.Fprintf(cmd.OutOrStdout(), "created project %s at %s\n",
				s.editor.Project().Name(), s.store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory for the project file (default: project_dir or home)")
	return cmd
}

