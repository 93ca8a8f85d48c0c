package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Updatable element field names. These are the keys accepted in Updates and
// match the JSON field names of Element.
const (
	FieldX               = "x"
	FieldY               = "y"
	FieldWidth           = "width"
	FieldHeight          = "height"
	FieldAngle           = "angle"
	FieldStrokeColor     = "strokeColor"
	FieldBackgroundColor = "backgroundColor"
	FieldStrokeWidth     = "strokeWidth"
	FieldRoughness       = "roughness"
	FieldOpacity         = "opacity"
	FieldIndex           = "index"
	FieldIsDeleted       = "isDeleted"
	FieldLocked          = "locked"
	FieldLink            = "link"
	FieldGroupIDs        = "groupIds"
	FieldFrameID         = "frameId"
	FieldBoundElements   = "boundElements"
	FieldCustomData      = "customData"
	FieldText            = "text"
	FieldOriginalText    = "originalText"
	FieldFontSize        = "fontSize"
	FieldContainerID     = "containerId"
	FieldPoints          = "points"
	FieldStartBinding    = "startBinding"
	FieldEndBinding      = "endBinding"
	FieldStartArrowhead  = "startArrowhead"
	FieldEndArrowhead    = "endArrowhead"
	FieldElbowed         = "elbowed"
	FieldFixedSegments   = "fixedSegments"
	FieldFileID          = "fileId"
	FieldStatus          = "status"
	FieldScale           = "scale"
	FieldName            = "name"
)

// Fields owned by the mutation engine. They are rejected in Updates.
const (
	FieldID           = "id"
	FieldType         = "type"
	FieldVersion      = "version"
	FieldVersionNonce = "versionNonce"
	FieldUpdated      = "updated"
	FieldSeed         = "seed"
)

// FieldKind classifies how a field's values are stored and compared.
type FieldKind int

// Field kinds.
const (
	KindNumber FieldKind = iota
	KindString
	KindBool
	KindStrings
	KindBoundElements
	KindBinding
	KindPoints
	KindScale
	KindFixedSegments
	KindObject
)

// fieldSpec describes one updatable field: its kind, whether nil clears it,
// and how to read and write it on an Element.
type fieldSpec struct {
	kind     FieldKind
	nullable bool
	get      func(e *Element) any
	set      func(e *Element, v any)
}

var fieldSpecs = map[string]fieldSpec{
	FieldX:               numberField(func(e *Element) *float64 { return &e.X }),
	FieldY:               numberField(func(e *Element) *float64 { return &e.Y }),
	FieldWidth:           numberField(func(e *Element) *float64 { return &e.Width }),
	FieldHeight:          numberField(func(e *Element) *float64 { return &e.Height }),
	FieldAngle:           numberField(func(e *Element) *float64 { return &e.Angle }),
	FieldStrokeWidth:     numberField(func(e *Element) *float64 { return &e.StrokeWidth }),
	FieldRoughness:       numberField(func(e *Element) *float64 { return &e.Roughness }),
	FieldOpacity:         numberField(func(e *Element) *float64 { return &e.Opacity }),
	FieldFontSize:        numberField(func(e *Element) *float64 { return &e.FontSize }),
	FieldStrokeColor:     stringField(false, func(e *Element) *string { return &e.StrokeColor }),
	FieldBackgroundColor: stringField(false, func(e *Element) *string { return &e.BackgroundColor }),
	FieldIndex:           stringField(false, func(e *Element) *string { return &e.Index }),
	FieldLink:            stringField(true, func(e *Element) *string { return &e.Link }),
	FieldFrameID:         stringField(true, func(e *Element) *string { return &e.FrameID }),
	FieldText:            stringField(false, func(e *Element) *string { return &e.Text }),
	FieldOriginalText:    stringField(false, func(e *Element) *string { return &e.OriginalText }),
	FieldContainerID:     stringField(true, func(e *Element) *string { return &e.ContainerID }),
	FieldStartArrowhead:  stringField(true, func(e *Element) *string { return &e.StartArrowhead }),
	FieldEndArrowhead:    stringField(true, func(e *Element) *string { return &e.EndArrowhead }),
	FieldFileID:          stringField(true, func(e *Element) *string { return &e.FileID }),
	FieldStatus:          stringField(false, func(e *Element) *string { return &e.Status }),
	FieldName:            stringField(true, func(e *Element) *string { return &e.Name }),
	FieldIsDeleted:       boolField(func(e *Element) *bool { return &e.IsDeleted }),
	FieldLocked:          boolField(func(e *Element) *bool { return &e.Locked }),
	FieldElbowed:         boolField(func(e *Element) *bool { return &e.Elbowed }),
	FieldGroupIDs: {
		kind: KindStrings, nullable: true,
		get: func(e *Element) any { return e.GroupIDs },
		set: func(e *Element, v any) { e.GroupIDs, _ = v.([]string) },
	},
	FieldBoundElements: {
		kind: KindBoundElements, nullable: true,
		get: func(e *Element) any { return e.BoundElements },
		set: func(e *Element, v any) { e.BoundElements, _ = v.([]BoundElement) },
	},
	FieldCustomData: {
		kind: KindObject, nullable: true,
		get: func(e *Element) any { return e.CustomData },
		set: func(e *Element, v any) { e.CustomData, _ = v.(map[string]any) },
	},
	FieldPoints: {
		kind: KindPoints,
		get:  func(e *Element) any { return e.Points },
		set:  func(e *Element, v any) { e.Points, _ = v.([]Point) },
	},
	FieldStartBinding: {
		kind: KindBinding, nullable: true,
		get: func(e *Element) any { return e.StartBinding },
		set: func(e *Element, v any) { e.StartBinding, _ = v.(*PointBinding) },
	},
	FieldEndBinding: {
		kind: KindBinding, nullable: true,
		get: func(e *Element) any { return e.EndBinding },
		set: func(e *Element, v any) { e.EndBinding, _ = v.(*PointBinding) },
	},
	FieldFixedSegments: {
		kind: KindFixedSegments, nullable: true,
		get: func(e *Element) any { return e.FixedSegments },
		set: func(e *Element, v any) { e.FixedSegments, _ = v.([]FixedSegment) },
	},
	FieldScale: {
		kind: KindScale,
		get: func(e *Element) any {
			if e.Scale == nil {
				return nil
			}
			return *e.Scale
		},
		set: func(e *Element, v any) {
			s := v.(Scale)
			e.Scale = &s
		},
	},
}

func numberField(ref func(*Element) *float64) fieldSpec {
	return fieldSpec{
		kind: KindNumber,
		get:  func(e *Element) any { return *ref(e) },
		set:  func(e *Element, v any) { *ref(e) = v.(float64) },
	}
}

func stringField(nullable bool, ref func(*Element) *string) fieldSpec {
	return fieldSpec{
		kind:     KindString,
		nullable: nullable,
		get:      func(e *Element) any { return *ref(e) },
		set: func(e *Element, v any) {
			s, _ := v.(string)
			*ref(e) = s
		},
	}
}

func boolField(ref func(*Element) *bool) fieldSpec {
	return fieldSpec{
		kind: KindBool,
		get:  func(e *Element) any { return *ref(e) },
		set:  func(e *Element, v any) { *ref(e) = v.(bool) },
	}
}

// Updates is a partial set of element field changes keyed by field name.
// A key that is absent leaves the field untouched. A key present with a nil
// value clears a nullable field.
type Updates map[string]any

// Has reports whether the update contains key.
func (u Updates) Has(key string) bool {
	_, ok := u[key]
	return ok
}

// Keys returns the update's field names in sorted order.
func (u Updates) Keys() []string {
	keys := make([]string, 0, len(u))
	for k := range u {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the update map.
func (u Updates) Clone() Updates {
	out := make(Updates, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Normalize validates every key and coerces values into the canonical Go type
// for their field (for example int to float64, [2]float64 to Scale, PointBinding
// to *PointBinding). It returns ErrReadOnlyField for engine-owned fields,
// ErrUnknownField for unrecognized keys, and ErrTypeMismatch when a value
// cannot be coerced.
func (u Updates) Normalize() (Updates, error) {
	out := make(Updates, len(u))
	for key, val := range u {
		spec, ok := fieldSpecs[key]
		if !ok {
			if isReadOnlyField(key) {
				return nil, fmt.Errorf("%w: %s", ErrReadOnlyField, key)
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		if val == nil {
			if !spec.nullable {
				return nil, fmt.Errorf("%w: %s cannot be null", ErrTypeMismatch, key)
			}
			out[key] = nil
			continue
		}
		cv, ok := coerce(spec.kind, val)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrTypeMismatch, key, val)
		}
		out[key] = cv
	}
	return out, nil
}

func isReadOnlyField(key string) bool {
	switch key {
	case FieldID, FieldType, FieldVersion, FieldVersionNonce, FieldUpdated, FieldSeed:
		return true
	}
	return false
}

func coerce(kind FieldKind, v any) (any, bool) {
	switch kind {
	case KindNumber:
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		}
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	case KindStrings:
		s, ok := v.([]string)
		return s, ok
	case KindBoundElements:
		s, ok := v.([]BoundElement)
		return s, ok
	case KindBinding:
		switch b := v.(type) {
		case *PointBinding:
			return b, b != nil
		case PointBinding:
			return &b, true
		}
	case KindPoints:
		p, ok := v.([]Point)
		return p, ok
	case KindScale:
		switch s := v.(type) {
		case Scale:
			return s, true
		case [2]float64:
			return Scale(s), true
		case *Scale:
			if s != nil {
				return *s, true
			}
		}
	case KindFixedSegments:
		s, ok := v.([]FixedSegment)
		return s, ok
	case KindObject:
		m, ok := v.(map[string]any)
		return m, ok
	}
	return nil, false
}

// Field returns the current value of a named updatable field and its kind.
// ok is false for unknown names.
func (e *Element) Field(name string) (value any, kind FieldKind, ok bool) {
	spec, found := fieldSpecs[name]
	if !found {
		return nil, 0, false
	}
	return spec.get(e), spec.kind, true
}

// SetField writes a normalized value to a named field. Callers outside the
// mutation engine must not use it; it performs no versioning.
func (e *Element) SetField(name string, value any) error {
	spec, ok := fieldSpecs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if value == nil {
		if !spec.nullable {
			return fmt.Errorf("%w: %s cannot be null", ErrTypeMismatch, name)
		}
		clearField(e, spec)
		return nil
	}
	spec.set(e, value)
	return nil
}

func clearField(e *Element, spec fieldSpec) {
	switch spec.kind {
	case KindString:
		spec.set(e, "")
	case KindStrings:
		spec.set(e, []string(nil))
	case KindBoundElements:
		spec.set(e, []BoundElement(nil))
	case KindBinding:
		spec.set(e, (*PointBinding)(nil))
	case KindFixedSegments:
		spec.set(e, []FixedSegment(nil))
	case KindObject:
		spec.set(e, map[string]any(nil))
	}
}

// ParseUpdates decodes a JSON object into Updates, decoding each known field
// into its canonical Go type.
func ParseUpdates(data []byte) (Updates, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	out := make(Updates, len(raw))
	for key, msg := range raw {
		spec, ok := fieldSpecs[key]
		if !ok {
			if isReadOnlyField(key) {
				return nil, fmt.Errorf("%w: %s", ErrReadOnlyField, key)
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		if string(msg) == "null" {
			out[key] = nil
			continue
		}
		v, err := decodeField(spec.kind, msg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, key, err)
		}
		out[key] = v
	}
	return out, nil
}

func decodeField(kind FieldKind, msg json.RawMessage) (any, error) {
	var err error
	switch kind {
	case KindNumber:
		var v float64
		err = json.Unmarshal(msg, &v)
		return v, err
	case KindString:
		var v string
		err = json.Unmarshal(msg, &v)
		return v, err
	case KindBool:
		var v bool
		err = json.Unmarshal(msg, &v)
		return v, err
	case KindStrings:
		var v []string
		err = json.Unmarshal(msg, &v)
		return v, err
	case KindBoundElements:
		var v []BoundElement
		err = json.Unmarshal(msg, &v)
		return v, err
	case KindBinding:
		var v PointBinding
		err = json.Unmarshal(msg, &v)
		return &v, err
	case KindPoints:
		var v []Point
		err = json.Unmarshal(msg, &v)
		return v, err
	case KindScale:
		var v Scale
		err = json.Unmarshal(msg, &v)
		return v, err
	case KindFixedSegments:
		var v []FixedSegment
		err = json.Unmarshal(msg, &v)
		return v, err
	default:
		var v map[string]any
		err = json.Unmarshal(msg, &v)
		return v, err
	}
}
