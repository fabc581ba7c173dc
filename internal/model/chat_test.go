package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestChatTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ChatStatus
		to      ChatStatus
		changed bool
		want    ChatStatus
		wantErr bool
	}{
		{"claim open", ChatOpen, ChatClaimed, true, ChatClaimed, false},
		{"complete open", ChatOpen, ChatCompleted, true, ChatCompleted, false},
		{"complete claimed", ChatClaimed, ChatCompleted, true, ChatCompleted, false},
		{"claim claimed", ChatClaimed, ChatClaimed, false, ChatClaimed, false},
		{"complete completed", ChatCompleted, ChatCompleted, false, ChatCompleted, false},
		{"claim completed", ChatCompleted, ChatClaimed, false, ChatCompleted, false},
		{"reopen claimed", ChatClaimed, ChatOpen, false, ChatClaimed, true},
		{"unknown target", ChatOpen, ChatStatus("LOST"), false, ChatOpen, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Chat{Status: tt.from}
			changed, err := c.Transition(tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if c.Status != tt.want {
				t.Errorf("status = %s, want %s", c.Status, tt.want)
			}
		})
	}
}

func TestChatJSONCarriesFlags(t *testing.T) {
	c := Chat{
		ID:            "c-1",
		ItemID:        "b1",
		PaymentMethod: PaymentRobux,
		Status:        ChatClaimed,
		Messages:      []Message{{From: "amy", Text: "hi", Timestamp: time.Unix(0, 0).UTC()}},
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["claimed"] != true || raw["completed"] != false {
		t.Fatalf("unexpected flags in %s", data)
	}
	if raw["status"] != "CLAIMED" {
		t.Fatalf("status missing in %s", data)
	}

	var back Chat
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Status != ChatClaimed || back.PaymentMethod != PaymentRobux || len(back.Messages) != 1 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestChatJSONLegacyFlags(t *testing.T) {
	var c Chat
	if err := json.Unmarshal([]byte(`{"id":"c1","claimed":true,"completed":true}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Status != ChatCompleted {
		t.Errorf("status = %s, want COMPLETED", c.Status)
	}
	if c.PaymentMethod != PaymentCredits {
		t.Errorf("payment = %s, want CREDITS", c.PaymentMethod)
	}
}

func TestStateJSONOlderLayout(t *testing.T) {
	data := []byte(`{
		"users": [
			{"username": "SammySelling", "password": "Elliot1993", "displayName": "Sammy (Owner)", "isAdmin": true},
			{"username": "guest_ab12cd3", "password": null, "displayName": "guest_ab12cd3", "isAdmin": false}
		],
		"items": [{"id": "b1", "name": "Normal Brainrot", "desc": "Basic Brainrot.", "stock": 5, "price": 100}],
		"chats": [{
			"id": "cabc",
			"user": "amy",
			"userDisplay": "Amy",
			"itemId": "b1",
			"itemName": "Normal Brainrot",
			"messages": [{"from": "amy", "text": "hi", "time": 1714555800000}],
			"robux": true,
			"claimed": true,
			"completed": false
		}]
	}`)

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	admin := s.Users[0]
	if !admin.Matches("Elliot1993") || !admin.IsAdmin {
		t.Errorf("admin credential not loaded: %+v", admin)
	}
	if s.Users[1].Credential != nil {
		t.Errorf("null password should leave no credential")
	}

	c := s.Chats[0]
	if c.BuyerUsername != "amy" || c.BuyerDisplay != "Amy" {
		t.Errorf("buyer = %q/%q, want amy/Amy", c.BuyerUsername, c.BuyerDisplay)
	}
	if c.PaymentMethod != PaymentRobux {
		t.Errorf("payment = %s, want ROBUX", c.PaymentMethod)
	}
	if c.Status != ChatClaimed {
		t.Errorf("status = %s, want CLAIMED", c.Status)
	}
	want := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	if len(c.Messages) != 1 || !c.Messages[0].Timestamp.Equal(want) {
		t.Errorf("messages = %+v, want timestamp %s", c.Messages, want)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for in, want := range map[string]PaymentMethod{"credits": PaymentCredits, " ROBUX ": PaymentRobux} {
		got, err := ParsePaymentMethod(in)
		if err != nil || got != want {
			t.Errorf("ParsePaymentMethod(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParsePaymentMethod("gold"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	cred := "pw"
	s := &State{
		Users: []Account{{Username: "a", Credential: &cred}},
		Items: []Item{{ID: "b1", Stock: 2}},
		Chats: []Chat{{ID: "c1", Messages: []Message{{Text: "x"}}}},
	}
	c := s.Clone()
	*c.Users[0].Credential = "changed"
	c.Items[0].Stock = 0
	c.Chats[0].Messages[0].Text = "y"

	if *s.Users[0].Credential != "pw" || s.Items[0].Stock != 2 || s.Chats[0].Messages[0].Text != "x" {
		t.Fatalf("clone shares memory with source: %+v", s)
	}
}
