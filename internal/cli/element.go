package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BakaI9/excalidraw/internal/order"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/internal/shapecache"
	"github.com/BakaI9/excalidraw/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <json>",
		Short: "Add an element to the board",
		Long: `Add creates an element from a JSON object and appends it to the board.
Bindings and bound elements in the payload are synchronized with the
elements they name.

Example:
  boardctl add '{"type":"rectangle","x":0,"y":0,"width":100,"height":50}'`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var proto types.Element
			if err := json.Unmarshal([]byte(args[0]), &proto); err != nil {
				return userError(fmt.Errorf("%w: %v", types.ErrInvalidData, err))
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			el, err := s.mut.NewElement(s.scene, proto)
			if err != nil {
				return userError(err)
			}
			if err := s.scene.Insert(el); err != nil {
				return userError(err)
			}
			if err := order.SyncMovedIndices(s.mut, s.scene.Elements(), map[string]bool{el.ID: true}); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}

			if a.flags.json {
				return a.printJSON(el)
			}
			fmt.Fprintln(a.out, el.ID)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the elements of the board in paint order",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			elements := s.scene.Elements()
			if !all {
				elements = scene.NonDeleted(elements)
			}
			return a.printElements(elements)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include deleted elements")
	return cmd
}

// shownElement is the output of show.
type shownElement struct {
	Element *types.Element `json:"element"`
	Bounds  bounds         `json:"bounds"`
}

type bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func boundsOf(sh shapecache.Shape) bounds {
	return bounds{MinX: sh.MinX, MinY: sh.MinY, MaxX: sh.MaxX, MaxY: sh.MaxY}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one element and its bounding box",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			el, err := s.element(args[0])
			if err != nil {
				return err
			}
			shown := shownElement{Element: el, Bounds: boundsOf(s.shapes.Get(el))}
			if a.flags.json {
				return a.printJSON(shown)
			}
			data, err := json.MarshalIndent(el, "", "  ")
			if err != nil {
				return fmt.Errorf("encode element: %w", err)
			}
			fmt.Fprintln(a.out, string(data))
			fmt.Fprintf(a.out, "bounds: (%g, %g) - (%g, %g)\n",
				shown.Bounds.MinX, shown.Bounds.MinY, shown.Bounds.MaxX, shown.Bounds.MaxY)
			return nil
		},
	}
}
