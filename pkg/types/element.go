package types

// ElementType identifies the kind of a board element.
type ElementType string

// Element types.
const (
	TypeRectangle  ElementType = "rectangle"
	TypeDiamond    ElementType = "diamond"
	TypeEllipse    ElementType = "ellipse"
	TypeText       ElementType = "text"
	TypeArrow      ElementType = "arrow"
	TypeLine       ElementType = "line"
	TypeFreedraw   ElementType = "freedraw"
	TypeImage      ElementType = "image"
	TypeFrame      ElementType = "frame"
	TypeMagicFrame ElementType = "magicframe"
	TypeEmbeddable ElementType = "embeddable"
	TypeIframe     ElementType = "iframe"
	TypeSelection  ElementType = "selection"
)

// validElementTypes is the set of recognized element types.
var validElementTypes = map[ElementType]bool{
	TypeRectangle:  true,
	TypeDiamond:    true,
	TypeEllipse:    true,
	TypeText:       true,
	TypeArrow:      true,
	TypeLine:       true,
	TypeFreedraw:   true,
	TypeImage:      true,
	TypeFrame:      true,
	TypeMagicFrame: true,
	TypeEmbeddable: true,
	TypeIframe:     true,
	TypeSelection:  true,
}

// IsValidElementType reports whether t is a recognized element type.
func IsValidElementType(t ElementType) bool {
	return validElementTypes[t]
}

// Bound element kinds stored in Element.BoundElements.
const (
	BoundText  = "text"
	BoundArrow = "arrow"
)

// BoundElement references an element bound to the owner: a text label or a
// connector whose start or end binding targets the owner.
type BoundElement struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"oneof=text arrow"`
}

// Point is an (x, y) pair relative to the owning element's x and y.
type Point [2]float64

// Scale is a horizontal and vertical scale factor pair.
type Scale [2]float64

// PointBinding anchors one end of a connector to a bindable element.
type PointBinding struct {
	ElementID  string      `json:"elementId"`
	Focus      float64     `json:"focus"`
	Gap        float64     `json:"gap"`
	FixedPoint *[2]float64 `json:"fixedPoint,omitempty"`
}

// FixedSegment pins one segment of an elbow arrow so rerouting keeps it.
type FixedSegment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	Index int   `json:"index"`
}

// Element is a single drawable record on a board.
//
// The struct is flat: type-specific fields are zero for element types that do
// not use them. Version, VersionNonce, and Updated are owned by the mutation
// engine and must not be written by any other path.
type Element struct {
	ID     string      `json:"id" validate:"required"`
	Type   ElementType `json:"type" validate:"required"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Angle  float64     `json:"angle"`

	StrokeColor     string  `json:"strokeColor,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	StrokeWidth     float64 `json:"strokeWidth,omitempty"`
	Roughness       float64 `json:"roughness,omitempty"`
	Opacity         float64 `json:"opacity,omitempty"`

	Seed         int64  `json:"seed"`
	Version      int64  `json:"version" validate:"gte=0"`
	VersionNonce int64  `json:"versionNonce"`
	Updated      int64  `json:"updated"`
	Index        string `json:"index,omitempty"`
	IsDeleted    bool   `json:"isDeleted,omitempty"`
	Locked       bool   `json:"locked,omitempty"`
	Link         string `json:"link,omitempty"`

	// GroupIDs lists group memberships, innermost group first.
	GroupIDs      []string       `json:"groupIds"`
	FrameID       string         `json:"frameId,omitempty"`
	BoundElements []BoundElement `json:"boundElements,omitempty" validate:"dive"`
	CustomData    map[string]any `json:"customData,omitempty"`

	// Text elements.
	Text         string  `json:"text,omitempty"`
	OriginalText string  `json:"originalText,omitempty"`
	FontSize     float64 `json:"fontSize,omitempty"`
	ContainerID  string  `json:"containerId,omitempty"`

	// Linear elements (arrows, lines, freedraw).
	Points         []Point        `json:"points,omitempty"`
	StartBinding   *PointBinding  `json:"startBinding,omitempty"`
	EndBinding     *PointBinding  `json:"endBinding,omitempty"`
	StartArrowhead string         `json:"startArrowhead,omitempty"`
	EndArrowhead   string         `json:"endArrowhead,omitempty"`
	Elbowed        bool           `json:"elbowed,omitempty"`
	FixedSegments  []FixedSegment `json:"fixedSegments,omitempty"`

	// Image elements.
	FileID string `json:"fileId,omitempty"`
	Status string `json:"status,omitempty"`
	Scale  *Scale `json:"scale,omitempty"`

	// Frame-like elements.
	Name string `json:"name,omitempty"`
}

// IsText reports whether the element is a text element.
func (e *Element) IsText() bool {
	return e != nil && e.Type == TypeText
}

// IsFrameLike reports whether the element owns other elements through their
// FrameID.
func (e *Element) IsFrameLike() bool {
	return e != nil && (e.Type == TypeFrame || e.Type == TypeMagicFrame)
}

// IsLinear reports whether the element is defined by a point list.
func (e *Element) IsLinear() bool {
	return e != nil && (e.Type == TypeArrow || e.Type == TypeLine)
}

// IsBindingElement reports whether the element is a connector that carries
// start and end bindings.
func (e *Element) IsBindingElement() bool {
	return e != nil && e.Type == TypeArrow
}

// IsElbowArrow reports whether the element is an orthogonally routed arrow.
func (e *Element) IsElbowArrow() bool {
	return e.IsBindingElement() && e.Elbowed
}

// IsBindable reports whether connectors may bind to the element.
func (e *Element) IsBindable() bool {
	if e == nil {
		return false
	}
	switch e.Type {
	case TypeRectangle, TypeDiamond, TypeEllipse, TypeImage, TypeFrame,
		TypeMagicFrame, TypeEmbeddable, TypeIframe, TypeText:
		return true
	}
	return false
}

// IsTextBindableContainer reports whether the element may own a bound text
// label.
func (e *Element) IsTextBindableContainer() bool {
	if e == nil {
		return false
	}
	switch e.Type {
	case TypeRectangle, TypeDiamond, TypeEllipse, TypeArrow:
		return true
	}
	return false
}

// IsBoundToContainer reports whether the element is a text label inside a
// container.
func (e *Element) IsBoundToContainer() bool {
	return e.IsText() && e.ContainerID != ""
}

// BoundTextID returns the ID of the element's bound text label, or "" when it
// has none.
func (e *Element) BoundTextID() string {
	if e == nil {
		return ""
	}
	for _, be := range e.BoundElements {
		if be.Type == BoundText {
			return be.ID
		}
	}
	return ""
}

// HasBoundText reports whether the element is a container with a bound text
// entry.
func (e *Element) HasBoundText() bool {
	return e.IsTextBindableContainer() && e.BoundTextID() != ""
}

// HasBoundElement reports whether id appears in the element's BoundElements.
func (e *Element) HasBoundElement(id string) bool {
	for _, be := range e.BoundElements {
		if be.ID == id {
			return true
		}
	}
	return false
}

// InGroup reports whether the element belongs to groupID at any nesting
// level.
func (e *Element) InGroup(groupID string) bool {
	for _, g := range e.GroupIDs {
		if g == groupID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the element. The copy shares no slices, maps,
// or pointers with the receiver.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	if e.GroupIDs != nil {
		c.GroupIDs = append([]string{}, e.GroupIDs...)
	}
	if e.BoundElements != nil {
		c.BoundElements = append([]BoundElement{}, e.BoundElements...)
	}
	if e.Points != nil {
		c.Points = append([]Point{}, e.Points...)
	}
	if e.FixedSegments != nil {
		c.FixedSegments = append([]FixedSegment{}, e.FixedSegments...)
	}
	c.StartBinding = e.StartBinding.Clone()
	c.EndBinding = e.EndBinding.Clone()
	if e.Scale != nil {
		s := *e.Scale
		c.Scale = &s
	}
	if e.CustomData != nil {
		c.CustomData = deepCopyMap(e.CustomData)
	}
	return &c
}

// Clone returns a copy of the binding, or nil for a nil binding.
func (b *PointBinding) Clone() *PointBinding {
	if b == nil {
		return nil
	}
	c := *b
	if b.FixedPoint != nil {
		fp := *b.FixedPoint
		c.FixedPoint = &fp
	}
	return &c
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
