package rules

import (
	"bytes"
	json2 "encoding/json"
	"time"
)

type EventType string

const (
	EventShot       EventType = "shot"
	EventSteal      EventType = "steal"
	EventBunt       EventType = "bunt"
	EventKnock      EventType = "knock"
	EventCorrection EventType = "correction"
)

// Payload is the tagged union of per-type event payloads. Each variant
// validates its own structure; rule checks against game state happen in the
// engine.
type Payload interface {
	EventType() EventType
	Validate() error
}

// Event is one immutable play, identified by (GameID, Seq). Facts is
// assigned by the engine at apply time and nil before then.
type Event struct {
	GameID    int64     `json:"game_id"`
	Seq       int64     `json:"seq"`
	Type      EventType `json:"type"`
	Actor     int64     `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
	Payload   Payload   `json:"payload"`
	Facts     *Facts    `json:"facts,omitempty"`
}

type ShotResult string

const (
	ShotFirst     ShotResult = "first"
	ShotSecond    ShotResult = "second"
	ShotThird     ShotResult = "third"
	ShotHome      ShotResult = "home"
	ShotGrandslam ShotResult = "grandslam"
	ShotStrike    ShotResult = "strike"
	ShotOut       ShotResult = "out"
)

type ShotPayload struct {
	Result ShotResult `json:"result"`
}

func (p ShotPayload) EventType() EventType { return EventShot }

func (p ShotPayload) Validate() error {
	switch p.Result {
	case ShotFirst, ShotSecond, ShotThird, ShotHome, ShotGrandslam, ShotStrike, ShotOut:
		return nil
	default:
		return invalidEvent(EventShot, "result", "unknown shot result")
	}
}

type StealResult string

const (
	StealSuccess StealResult = "success"
	StealFail    StealResult = "fail"
)

type StealPayload struct {
	Target Base        `json:"target_base"`
	Result StealResult `json:"result"`
}

func (p StealPayload) EventType() EventType { return EventSteal }

func (p StealPayload) Validate() error {
	if p.Target < BaseFirst || p.Target > BaseThird {
		return invalidEvent(EventSteal, "target_base", "must be first, second or third")
	}
	if p.Result != StealSuccess && p.Result != StealFail {
		return invalidEvent(EventSteal, "result", "unknown steal result")
	}
	return nil
}

type BuntResult string

const (
	BuntSuccess BuntResult = "success"
	BuntFail    BuntResult = "fail"
)

type BuntPayload struct {
	Result BuntResult `json:"result"`
}

func (p BuntPayload) EventType() EventType { return EventBunt }

func (p BuntPayload) Validate() error {
	if p.Result != BuntSuccess && p.Result != BuntFail {
		return invalidEvent(EventBunt, "result", "unknown bunt result")
	}
	return nil
}

// KnockPayload counts cups removed per base in one play.
type KnockPayload struct {
	First  int64 `json:"first"`
	Second int64 `json:"second"`
	Third  int64 `json:"third"`
	Home   int64 `json:"home"`
}

func (p KnockPayload) EventType() EventType { return EventKnock }

func (p KnockPayload) Validate() error {
	counts := map[string]int64{
		"first":  p.First,
		"second": p.Second,
		"third":  p.Third,
		"home":   p.Home,
	}
	total := int64(0)
	for field, n := range counts {
		if n < 0 {
			return invalidEvent(EventKnock, field, "cup count must not be negative")
		}
		total += n
	}
	if total == 0 {
		return invalidEvent(EventKnock, "first", "at least one cup must be knocked")
	}
	return nil
}

func (p KnockPayload) count(base Base) int64 {
	switch base {
	case BaseFirst:
		return p.First
	case BaseSecond:
		return p.Second
	case BaseThird:
		return p.Third
	case BaseHome:
		return p.Home
	default:
		return 0
	}
}

// CorrectionPayload supersedes a misrecorded play. The projector reverses
// the superseded event and reapplies the replacement (or nothing, voiding
// the play) without mutating the log.
type CorrectionPayload struct {
	Supersedes  int64             `json:"supersedes"`
	Replacement *ReplacementEvent `json:"replacement,omitempty"`
}

type ReplacementEvent struct {
	Type    EventType        `json:"type"`
	Actor   int64            `json:"actor_id"`
	Payload json2.RawMessage `json:"payload"`
}

func (p CorrectionPayload) EventType() EventType { return EventCorrection }

func (p CorrectionPayload) Validate() error {
	if p.Supersedes < 1 {
		return invalidEvent(EventCorrection, "supersedes", "must reference a sequence number")
	}
	if p.Replacement != nil {
		if p.Replacement.Type == EventCorrection {
			return invalidEvent(EventCorrection, "replacement", "cannot replace with a correction")
		}
		if _, err := ParsePayload(p.Replacement.Type, p.Replacement.Payload); err != nil {
			return err
		}
	}
	return nil
}

// ParsePayload decodes a raw payload into its typed variant. Unknown event
// types, unknown fields and structurally malformed payloads fail with
// ErrInvalidEvent.
func ParsePayload(eventType EventType, data []byte) (Payload, error) {
	if len(data) == 0 {
		data = []byte(`{}`)
	}

	decode := func(dest any) error {
		decoder := json2.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(dest); err != nil {
			return invalidEvent(eventType, "payload", err.Error())
		}
		return nil
	}

	var payload Payload
	switch eventType {
	case EventShot:
		var p ShotPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		payload = p
	case EventSteal:
		var p StealPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		payload = p
	case EventBunt:
		var p BuntPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		payload = p
	case EventKnock:
		var p KnockPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		payload = p
	case EventCorrection:
		var p CorrectionPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		payload = p
	default:
		return nil, invalidEvent(eventType, "type", "unknown event type")
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// result returns the payload's short outcome label carried on facts and in
// exports.
func result(p Payload) string {
	switch p := p.(type) {
	case ShotPayload:
		return string(p.Result)
	case StealPayload:
		return string(p.Result)
	case BuntPayload:
		return string(p.Result)
	case KnockPayload:
		return "knock"
	case CorrectionPayload:
		return "correction"
	default:
		return ""
	}
}
