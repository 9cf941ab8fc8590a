package monitor

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
)

// Struct field names of a snapshot.
const (
	FieldSessionID      = "session_id"
	FieldScreen         = "screen"
	FieldStage          = "stage"
	FieldCurrentReading = "current_reading"
	FieldTargetReading  = "target_reading"
	FieldStatus         = "status"
	FieldOutcome        = "outcome"
	FieldUpdatedAt      = "updated_at"
)

var (
	// errUnexpectedServer is returned when a handler receives a foreign server type.
	errUnexpectedServer = errors.New("unexpected server implementation")
	// errMalformedSnapshot is returned by FromStruct for a struct it cannot read.
	errMalformedSnapshot = errors.New("malformed snapshot")
)

// ToStruct converts a snapshot to its wire form.
// A missing target reading is sent as null.
func ToStruct(s panel.Snapshot) *structpb.Struct {
	target := structpb.NewNullValue()
	if s.TargetReading != nil {
		target = structpb.NewNumberValue(*s.TargetReading)
	}

	var updatedAt string
	if !s.UpdatedAt.IsZero() {
		updatedAt = s.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldSessionID:      structpb.NewStringValue(s.SessionID),
			FieldScreen:         structpb.NewStringValue(s.Screen),
			FieldStage:          structpb.NewStringValue(s.Stage.String()),
			FieldCurrentReading: structpb.NewNumberValue(s.CurrentReading),
			FieldTargetReading:  target,
			FieldStatus:         structpb.NewStringValue(s.Status),
			FieldOutcome:        structpb.NewStringValue(string(s.Outcome)),
			FieldUpdatedAt:      structpb.NewStringValue(updatedAt),
		},
	}
}

// FromStruct converts the wire form back into a snapshot.
func FromStruct(st *structpb.Struct) (panel.Snapshot, error) {
	fields := st.GetFields()

	stage, ok := panel.ParseStage(fields[FieldStage].GetStringValue())
	if !ok {
		return panel.Snapshot{}, fmt.Errorf("%w: stage %q", errMalformedSnapshot, fields[FieldStage].GetStringValue())
	}

	snapshot := panel.Snapshot{
		SessionID:      fields[FieldSessionID].GetStringValue(),
		Screen:         fields[FieldScreen].GetStringValue(),
		Stage:          stage,
		CurrentReading: fields[FieldCurrentReading].GetNumberValue(),
		Status:         fields[FieldStatus].GetStringValue(),
		Outcome:        panel.Outcome(fields[FieldOutcome].GetStringValue()),
	}

	if target, ok := fields[FieldTargetReading].GetKind().(*structpb.Value_NumberValue); ok {
		value := target.NumberValue
		snapshot.TargetReading = &value
	}

	if raw := fields[FieldUpdatedAt].GetStringValue(); raw != "" {
		updatedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return panel.Snapshot{}, fmt.Errorf("%w: updated_at: %w", errMalformedSnapshot, err)
		}

		snapshot.UpdatedAt = updatedAt
	}

	return snapshot, nil
}
