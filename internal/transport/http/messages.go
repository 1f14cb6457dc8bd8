package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"holo-museum-guide/internal/app"
	"holo-museum-guide/internal/domain"
)

var errUnsupportedType = errors.New("unsupported message type")

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type markerPayload struct {
	MarkerID string `json:"markerId"`
}

type posePayload struct {
	Camera  *[3]float64           `json:"camera"`
	Markers map[string][3]float64 `json:"markers"`
}

type actionPayload struct {
	Name   string `json:"name"`
	Option string `json:"option"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

type transcriptPayload struct {
	Text string `json:"text"`
}

type snapshotSavedPayload struct {
	FileName string `json:"fileName"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type gainPayload struct {
	Target float64 `json:"target"`
	// TimeConstant is in seconds, the unit setTargetAtTime expects.
	TimeConstant float64 `json:"timeConstant"`
}

type capturePayload struct {
	FileName string `json:"fileName"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// decodeEvent turns a browser message into a session event.
func decodeEvent(msg inboundMessage) (app.Event, error) {
	switch msg.Type {
	case "start":
		return app.UserAction{Action: app.ActionStart}, nil
	case "markerFound", "markerLost":
		var p markerPayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return nil, err
		}
		if p.MarkerID == "" {
			return nil, fmt.Errorf("%s: missing markerId", msg.Type)
		}
		if msg.Type == "markerFound" {
			return app.MarkerFound{MarkerID: p.MarkerID}, nil
		}
		return app.MarkerLost{MarkerID: p.MarkerID}, nil
	case "pose":
		var p posePayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return nil, err
		}
		ev := app.PoseUpdate{Markers: make(map[string]domain.Vec3, len(p.Markers))}
		if p.Camera != nil {
			ev.Camera = &domain.Vec3{X: p.Camera[0], Y: p.Camera[1], Z: p.Camera[2]}
		}
		for id, pos := range p.Markers {
			ev.Markers[id] = domain.Vec3{X: pos[0], Y: pos[1], Z: pos[2]}
		}
		return ev, nil
	case "action":
		var p actionPayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return nil, err
		}
		action, ok := app.ParseAction(p.Name)
		if !ok {
			return nil, fmt.Errorf("unknown action %q", p.Name)
		}
		return app.UserAction{Action: action, Option: p.Option, Title: p.Title, Text: p.Text}, nil
	case "transcript":
		var p transcriptPayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return nil, err
		}
		return app.Transcript{Text: p.Text}, nil
	case "snapshotSaved":
		var p snapshotSavedPayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return nil, err
		}
		return app.SnapshotSaved{FileName: p.FileName}, nil
	default:
		return nil, errUnsupportedType
	}
}

func unmarshalPayload(msg inboundMessage, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload", msg.Type)
	}
	return nil
}
