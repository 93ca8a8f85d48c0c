package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BakaI9/excalidraw/internal/binding"
)

var errViolations = errors.New("board has relation violations")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that every relation on the board holds in both directions",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			violations := binding.Validate(s.scene.Elements())
			if a.flags.json {
				if violations == nil {
					violations = []binding.Violation{}
				}
				if err := a.printJSON(violations); err != nil {
					return err
				}
			} else {
				for _, v := range violations {
					fmt.Fprintln(a.out, v)
				}
			}
			if len(violations) > 0 {
				return userError(fmt.Errorf("%w: %d", errViolations, len(violations)))
			}
			if !a.flags.json {
				fmt.Fprintln(a.out, "ok")
			}
			return nil
		},
	}
}

func newLinksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "links <id>",
		Short: "List the stored relations an element takes part in",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			links, err := s.backend.Links(args[0])
			if err != nil {
				return userError(err)
			}
			if a.flags.json {
				if links == nil {
					return a.printJSON([]any{})
				}
				return a.printJSON(links)
			}
			for _, l := range links {
				fmt.Fprintf(a.out, "%s %s -> %s\n", l.Kind, l.FromID, l.ToID)
			}
			return nil
		},
	}
}
