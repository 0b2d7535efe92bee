package rules

import (
	"BeerBaseballApi/internal/assert"
	"testing"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		data      string
		wantErr   error
	}{
		{
			name:      "Valid Shot",
			eventType: EventShot,
			data:      `{"result":"grandslam"}`,
		},
		{
			name:      "Unknown Shot Result",
			eventType: EventShot,
			data:      `{"result":"dinger"}`,
			wantErr:   ErrInvalidEvent,
		},
		{
			name:      "Valid Steal",
			eventType: EventSteal,
			data:      `{"target_base":"second","result":"fail"}`,
		},
		{
			name:      "Unknown Base",
			eventType: EventSteal,
			data:      `{"target_base":"fourth","result":"success"}`,
			wantErr:   ErrInvalidEvent,
		},
		{
			name:      "Home Is Not A Steal Target",
			eventType: EventSteal,
			data:      `{"target_base":"home","result":"success"}`,
			wantErr:   ErrInvalidEvent,
		},
		{
			name:      "Valid Knock",
			eventType: EventKnock,
			data:      `{"first":2,"home":1}`,
		},
		{
			name:      "Negative Cup Count",
			eventType: EventKnock,
			data:      `{"first":-2}`,
			wantErr:   ErrInvalidEvent,
		},
		{
			name:      "Unknown Field",
			eventType: EventKnock,
			data:      `{"fourth":1}`,
			wantErr:   ErrInvalidEvent,
		},
		{
			name:      "Unknown Event Type",
			eventType: EventType("mulligan"),
			data:      `{}`,
			wantErr:   ErrInvalidEvent,
		},
		{
			name:      "Correction Replacing With Correction",
			eventType: EventCorrection,
			data:      `{"supersedes":3,"replacement":{"type":"correction","payload":{}}}`,
			wantErr:   ErrInvalidEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParsePayload(tt.eventType, []byte(tt.data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, payload.EventType(), tt.eventType)
		})
	}
}
