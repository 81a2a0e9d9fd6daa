package protocol_test

import (
	"encoding/json"
	"errors"
	"testing"

	"duel/internal/protocol"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env := protocol.MustEnvelope(protocol.MsgWonder, protocol.ActionMsg{Slot: 4, Wonder: 1})
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}

	var got protocol.Envelope
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != protocol.MsgWonder {
		t.Fatalf("type = %q", got.Type)
	}
	var msg protocol.ActionMsg
	if err := json.Unmarshal(got.Payload, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Slot != 4 || msg.Wonder != 1 {
		t.Errorf("payload = %+v", msg)
	}
}

func TestNewEnvelopeError(t *testing.T) {
	if _, err := protocol.NewEnvelope(protocol.MsgEvent, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		payload string
		wantErr bool
		want    protocol.ReadyMsg
	}{
		{"", false, protocol.ReadyMsg{}},
		{"null", false, protocol.ReadyMsg{}},
		{`{"ready":true}`, false, protocol.ReadyMsg{Ready: true}},
		{`"yes"`, true, protocol.ReadyMsg{}},
	}
	for _, tt := range tests {
		env := protocol.Envelope{Type: protocol.MsgReady, Payload: json.RawMessage(tt.payload)}
		var got protocol.ReadyMsg
		err := env.Decode(&got)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v", tt.payload, err)
			continue
		}
		if err != nil && !errors.Is(err, protocol.ErrPayload) {
			t.Errorf("%q: err = %v, want ErrPayload", tt.payload, err)
		}
		if got != tt.want {
			t.Errorf("%q: got %+v", tt.payload, got)
		}
	}
}
