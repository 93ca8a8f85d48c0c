package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/BakaI9/excalidraw/internal/duplicate"
	"github.com/BakaI9/excalidraw/pkg/types"
)

func selection(ids, groups []string) types.AppState {
	st := types.NewAppState(ids...)
	for _, g := range groups {
		st.SelectedGroupIDs[g] = true
	}
	return st
}

func newDuplicateCmd(a *app) *cobra.Command {
	var groups []string
	cmd := &cobra.Command{
		Use:   "duplicate <id>...",
		Short: "Duplicate a selection with an offset",
		Long: `Duplicate copies the selected elements, their bound text, and the children
of selected frames. Copies are offset by duplicate_offset and keep every
relation among themselves. Whole groups are copied when named with --group.`,
		Args: userArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.dup.DuplicateSelectionWithOffset(s.scene.Elements(), selection(args, groups))
			if err != nil {
				return userError(err)
			}
			s.scene.Replace(res.Elements)
			if err := s.save(); err != nil {
				return err
			}

			selected := res.AppState.SelectedIDs()
			sort.Strings(selected)
			if a.flags.json {
				return a.printJSON(map[string]any{
					"duplicates": res.Duplicates,
					"selected":   selected,
				})
			}
			originals := make([]string, 0, len(res.Duplicates))
			for id := range res.Duplicates {
				originals = append(originals, id)
			}
			sort.Strings(originals)
			for _, id := range originals {
				fmt.Fprintf(a.out, "%s -> %s\n", id, res.Duplicates[id])
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&groups, "group", nil, "select a group by ID (repeatable)")
	return cmd
}

func newDragDuplicateCmd(a *app) *cobra.Command {
	var dx, dy float64
	cmd := &cobra.Command{
		Use:   "drag-duplicate <id>...",
		Short: "Simulate an Alt-drag of the selection",
		Long: `Drag-duplicate leaves copies of the selection in place and moves the
originals by --dx and --dy. Connectors and labels of elements outside the
selection stay with the copies.`,
		Args: userArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			before := make(map[string]bool, s.scene.Len())
			snapshot := make(map[string]*types.Element, len(args))
			for _, el := range s.scene.Elements() {
				before[el.ID] = true
			}
			for _, id := range args {
				el, err := s.element(id)
				if err != nil {
					return err
				}
				snapshot[id] = el.Clone()
			}

			state := &duplicate.PointerDownState{
				OriginalElements: snapshot,
				Pointer:          types.Point{dx, dy},
			}
			next, err := s.dup.DragDuplicate(state, &duplicate.StaticApp{
				Items: s.scene.Elements(),
				State: selection(args, nil),
			})
			if err != nil {
				return userError(err)
			}
			s.scene.Replace(next)
			if err := s.save(); err != nil {
				return err
			}

			var created []string
			for _, el := range next {
				if !before[el.ID] {
					created = append(created, el.ID)
				}
			}
			if a.flags.json {
				return a.printJSON(map[string]any{"created": created})
			}
			for _, id := range created {
				fmt.Fprintln(a.out, id)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&dx, "dx", 0, "horizontal pointer travel")
	cmd.Flags().Float64Var(&dy, "dy", 0, "vertical pointer travel")
	return cmd
}
