package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// Output formats accepted by show.
const (
	formatText = "text"
	formatYAML = "yaml"
)

// projectView is the YAML rendering of a project. Frame pixels are
// summarized as counts.
type projectView struct {
	Name       string         `yaml:"name"`
	Stats      types.Stats    `yaml:"stats"`
	Categories []categoryView `yaml:"categories"`
	Entities   []entityView   `yaml:"entities"`
}

type categoryView struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

type entityView struct {
	Name     string      `yaml:"name"`
	Category string      `yaml:"category"`
	Width    int         `yaml:"width,omitempty"`
	Height   int         `yaml:"height,omitempty"`
	States   []stateView `yaml:"states,omitempty"`
}

type stateView struct {
	Name   string `yaml:"name"`
	Frames int    `yaml:"frames"`
}

func newProjectView(p *types.Project) projectView {
	v := projectView{
		Name:       p.Name(),
		Stats:      p.Stats(),
		Categories: []categoryView{},
		Entities:   []entityView{},
	}
	for _, c := range p.Categories() {
		v.Categories = append(v.Categories, categoryView{Name: c.Name, Width: c.Width, Height: c.Height})
	}
	for _, e := range p.Entities() {
		ev := entityView{Name: e.Name, Category: e.Category.Name, Width: e.Width, Height: e.Height}
		for _, s := range p.GetStates(e.Name) {
			ev.States = append(ev.States, stateView{Name: s.Name, Frames: len(s.Frames)})
		}
		v.Entities = append(v.Entities, ev)
	}
	return v
}

func (a *app) newShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the project tree and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatYAML {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatYAML)
			}
			return a.view(cmd.Context(), func(p *types.Project) error {
				if format == formatYAML {
					return writeProjectYAML(cmd.OutOrStdout(), p)
				}
				return writeProjectText(cmd.OutOrStdout(), p)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or yaml")
	return cmd
}

func writeProjectYAML(w io.Writer, p *types.Project) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newProjectView(p)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeProjectText(w io.Writer, p *types.Project) error {
	var b strings.Builder
	st := p.Stats()
	fmt.Fprintf(&b, "project %s\n", p.Name())
	fmt.Fprintf(&b, "categories: %d  entities: %d  states: %d  frames: %d\n",
		st.Categories, st.Entities, st.States, st.Frames)

	b.WriteString("\ncategories\n")
	for _, c := range p.Categories() {
		fmt.Fprintf(&b, "  %s%s\n", c.Name, sizeSuffix(c.Width, c.Height))
	}

	b.WriteString("\nentities\n")
	for _, e := range p.Entities() {
		fmt.Fprintf(&b, "  %s  (%s)%s\n", e.Name, e.Category.Name, sizeSuffix(e.Width, e.Height))
		for _, s := range p.GetStates(e.Name) {
			fmt.Fprintf(&b, "    %s  %s\n", s.Name, plural(len(s.Frames), "frame"))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
