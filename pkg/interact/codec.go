package interact

import (
	"encoding/json"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Wire names of events.
const (
	TypeDragStart          = "dragStart"
	TypeDragMove           = "dragMove"
	TypeDragEnd            = "dragEnd"
	TypeHover              = "hover"
	TypeHoverEnd           = "hoverEnd"
	TypeClick              = "click"
	TypeZoom               = "zoom"
	TypeSetForceParameters = "setForceParameters"
	TypeSlider             = "slider"
)

// wireEvent is the JSON shape of every event:
//
//	{"type": "dragStart", "node": "Ada", "x": 120, "y": 80}
//	{"type": "setForceParameters", "linkStrength": 0}
//	{"type": "slider", "slider": {"chargeStrength": -50, "collisionRadius": 24, "linkStrength": 0.3}}
type wireEvent struct {
	Type              string     `json:"type"`
	Node              string     `json:"node,omitempty"`
	X                 float64    `json:"x,omitempty"`
	Y                 float64    `json:"y,omitempty"`
	Transform         *Transform `json:"transform,omitempty"`
	Charge            *float64   `json:"charge,omitempty"`
	CollideMultiplier *float64   `json:"collideMultiplier,omitempty"`
	LinkStrength      *float64   `json:"linkStrength,omitempty"`
	Slider            *Slider    `json:"slider,omitempty"`
}

// DecodeEvent parses one JSON event. Slider events are converted with the
// collide baseline of cfg.
func DecodeEvent(data []byte, cfg Config) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode event")
	}

	needNode := func() error {
		if err := errors.ValidateNodeID(w.Node); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEvent, err, "%s event", w.Type)
		}
		return nil
	}

	switch w.Type {
	case TypeDragStart:
		if err := needNode(); err != nil {
			return nil, err
		}
		return DragStart{NodeID: w.Node, Pointer: sim.Point{X: w.X, Y: w.Y}}, nil
	case TypeDragMove:
		return DragMove{Pointer: sim.Point{X: w.X, Y: w.Y}}, nil
	case TypeDragEnd:
		return DragEnd{}, nil
	case TypeHover:
		if err := needNode(); err != nil {
			return nil, err
		}
		return Hover{NodeID: w.Node}, nil
	case TypeHoverEnd:
		return HoverEnd{}, nil
	case TypeClick:
		if err := needNode(); err != nil {
			return nil, err
		}
		return Click{NodeID: w.Node}, nil
	case TypeZoom:
		if w.Transform == nil {
			return nil, errors.New(errors.ErrCodeInvalidEvent, "zoom event without transform")
		}
		return Zoom{Transform: *w.Transform}, nil
	case TypeSetForceParameters:
		return SetForceParameters{Charge: w.Charge, CollideMultiplier: w.CollideMultiplier, LinkStrength: w.LinkStrength}, nil
	case TypeSlider:
		if w.Slider == nil {
			return nil, errors.New(errors.ErrCodeInvalidEvent, "slider event without values")
		}
		return w.Slider.Event(cfg.normalize().CollideBaseline), nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidEvent, "event type missing")
	}
	return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", w.Type)
}

// EncodeEvent renders an event in the format read by [DecodeEvent].
func EncodeEvent(e Event) ([]byte, error) {
	var w wireEvent
	switch e := e.(type) {
	case DragStart:
		w = wireEvent{Type: TypeDragStart, Node: e.NodeID, X: e.Pointer.X, Y: e.Pointer.Y}
	case DragMove:
		w = wireEvent{Type: TypeDragMove, X: e.Pointer.X, Y: e.Pointer.Y}
	case DragEnd:
		w = wireEvent{Type: TypeDragEnd}
	case Hover:
		w = wireEvent{Type: TypeHover, Node: e.NodeID}
	case HoverEnd:
		w = wireEvent{Type: TypeHoverEnd}
	case Click:
		w = wireEvent{Type: TypeClick, Node: e.NodeID}
	case Zoom:
		t := e.Transform
		w = wireEvent{Type: TypeZoom, Transform: &t}
	case SetForceParameters:
		w = wireEvent{Type: TypeSetForceParameters, Charge: e.Charge, CollideMultiplier: e.CollideMultiplier, LinkStrength: e.LinkStrength}
	default:
		return nil, errors.New(errors.ErrCodeInvalidEvent, "unencodable event %T", e)
	}
	return json.Marshal(w)
}
