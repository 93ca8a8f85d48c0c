package duplicate

import (
	"fmt"
	"math"

	"github.com/BakaI9/excalidraw/pkg/types"
)

// checkSceneBounds rejects elements whose position or size magnitude exceeds
// types.MaxSceneMagnitude. Nil elements are ignored.
func checkSceneBounds(elements ...*types.Element) error {
	for _, el := range elements {
		if el == nil {
			continue
		}
		for _, v := range [4]float64{el.X, el.Y, el.Width, el.Height} {
			if math.Abs(v) > types.MaxSceneMagnitude || math.IsNaN(v) {
				return fmt.Errorf("%w: element %s at (%g, %g) size %gx%g",
					types.ErrSceneBounds, el.ID, el.X, el.Y, el.Width, el.Height)
			}
		}
	}
	return nil
}
