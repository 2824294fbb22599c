package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dd0wney/entitygraph/pkg/events"
	"github.com/dd0wney/entitygraph/pkg/render"
	"github.com/dd0wney/entitygraph/pkg/scenario"
	"github.com/dd0wney/entitygraph/pkg/validation"
)

func newDemoCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in five node scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(scenario.Demo(), format, true)
		},
	}
	cmd.Flags().StringVar(&format, "format", render.FormatText, "output format (text, mermaid)")
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	var (
		format string
		verify bool
	)
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file and print every tick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			return a.play(s, format, verify)
		},
	}
	cmd.Flags().StringVar(&format, "format", render.FormatText, "output format (text, mermaid)")
	cmd.Flags().BoolVar(&verify, "verify", true, "check every invariant after each tick")
	return cmd
}

func (a *app) play(s *scenario.Scenario, format string, verify bool) error {
	if err := validation.NewConfigValidator("flags").OneOf("format", format, render.Formats).Validate(); err != nil {
		return err
	}

	res, err := scenario.Run(s, scenario.Options{Logger: a.logger, Verify: verify})
	if err != nil {
		return err
	}

	for _, f := range res.Frames {
		fmt.Fprintf(a.out, "%s\n", titleStyle.Render(fmt.Sprintf("== step %d ==", f.Step+1)))
		if err := render.Write(a.out, format, f.Snapshot); err != nil {
			return err
		}
		writeDiagnostics(a.out, f.Report.Diagnostics)
	}
	return nil
}

func writeDiagnostics(w io.Writer, diags []events.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s\n", warnStyle.Render("! "+d.String()))
	}
}
