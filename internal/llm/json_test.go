package llm

import (
	"errors"
	"io"
	"testing"
)

type samplePayload struct {
	Mood   string   `json:"mood"`
	Topics []string `json:"topics"`
}

func TestDecodeJSON_Clean(t *testing.T) {
	var p samplePayload
	if err := DecodeJSON(`{"mood":"calm","topics":["sleep"]}`, &p); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Mood != "calm" || len(p.Topics) != 1 {
		t.Errorf("Unexpected payload %+v", p)
	}
}

func TestDecodeJSON_CodeFence(t *testing.T) {
	out := "```json\n{\"mood\":\"calm\",\"topics\":[]}\n```"
	var p samplePayload
	if err := DecodeJSON(out, &p); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Mood != "calm" {
		t.Errorf("Unexpected payload %+v", p)
	}
}

func TestDecodeJSON_ProseWrapped(t *testing.T) {
	out := `Sure! Here you go: {"mood":"tense","topics":["work"]} Let me know if you need more.`
	var p samplePayload
	if err := DecodeJSON(out, &p); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Mood != "tense" {
		t.Errorf("Unexpected payload %+v", p)
	}
}

func TestDecodeJSON_Empty(t *testing.T) {
	var p samplePayload
	if err := DecodeJSON("   ", &p); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestDecodeJSON_NoObject(t *testing.T) {
	var p samplePayload
	if err := DecodeJSON("no json here", &p); err == nil {
		t.Fatal("Expected error for output without JSON")
	}
}
