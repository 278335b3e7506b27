package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"workboard/internal/model"
)

type envelope struct {
	Intent Kind `json:"intent"`
}

// Decode validates a classifier's JSON against the intent union. Anything
// malformed, unknown or missing required fields becomes Unknown carrying raw.
func Decode(data []byte, raw string) Intent {
	in, err := decode(data)
	if err != nil {
		return Unknown{Raw: raw, Error: err.Error()}
	}
	if u, ok := in.(Unknown); ok && u.Raw == "" {
		u.Raw = raw
		return u
	}
	return in
}

func decode(data []byte) (Intent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}

	var in Intent
	var err error
	switch env.Intent {
	case KindAddTask:
		in, err = into[AddTask](data)
	case KindCompletePending:
		in, err = into[CompletePending](data)
	case KindMarkDone, KindMarkDoing, KindMarkSkipped:
		var sc StatusChange
		sc, err = into[StatusChange](data)
		sc.Status = statusFor(env.Intent)
		in = sc
	case KindMoveTask:
		var mv MoveTask
		mv, err = into[MoveTask](data)
		mv.ToDay = strings.ToLower(strings.TrimSpace(mv.ToDay))
		in = mv
	case KindPushTomorrow:
		in, err = into[PushTomorrow](data)
	case KindQueryNext:
		in = QueryNext{}
	case KindQueryToday:
		in = QueryToday{}
	case KindQueryDay:
		var q QueryDay
		q, err = into[QueryDay](data)
		q.Day = strings.ToLower(strings.TrimSpace(q.Day))
		in = q
	case KindQueryWeek:
		in = QueryWeek{}
	case KindCheckInResponse:
		in, err = into[CheckInResponse](data)
	case KindAcknowledge:
		in = Acknowledge{}
	case KindSetReminder:
		in, err = into[SetReminder](data)
	case KindDeleteReminder:
		in, err = into[DeleteReminder](data)
	case KindListReminders:
		in = ListReminders{}
	case KindModifyBehavior:
		in, err = into[ModifyBehavior](data)
	case KindResetBehavior:
		in = ResetBehavior{}
	case KindAddNote:
		in, err = into[AddNote](data)
	case KindLogFood, KindLogExercise, KindLogSleep:
		var h HealthLog
		h, err = into[HealthLog](data)
		h.Type = model.CheckInType(env.Intent)
		in = h
	case KindPause:
		in, err = into[Pause](data)
	case KindManageSubtypes:
		in, err = into[ManageSubtypes](data)
	case KindChat:
		in, err = into[Chat](data)
	case KindUnknown:
		in, err = into[Unknown](data)
	case "":
		return nil, fmt.Errorf("decode intent: missing intent field")
	default:
		return nil, fmt.Errorf("decode intent: unsupported intent %q", env.Intent)
	}
	if err != nil {
		return nil, err
	}
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	return in, nil
}

func into[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode intent fields: %w", err)
	}
	return v, nil
}

func statusFor(k Kind) model.TaskStatus {
	switch k {
	case KindMarkDoing:
		return model.StatusDoing
	case KindMarkSkipped:
		return model.StatusSkipped
	default:
		return model.StatusDone
	}
}

// ExtractJSON pulls a JSON object out of model output: the whole text, the
// first fenced block that parses, or the outermost {...} span.
func ExtractJSON(text string) ([]byte, bool) {
	text = strings.TrimSpace(text)
	if json.Valid([]byte(text)) {
		return []byte(text), true
	}

	if strings.Contains(text, "```") {
		parts := strings.Split(text, "```")
		for i := 1; i < len(parts); i += 2 {
			block := strings.TrimSpace(parts[i])
			block = strings.TrimSpace(strings.TrimPrefix(block, "json"))
			if json.Valid([]byte(block)) {
				return []byte(block), true
			}
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if span := text[start : end+1]; json.Valid([]byte(span)) {
			return []byte(span), true
		}
	}
	return nil, false
}
