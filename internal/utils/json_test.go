package utils

import "testing"

type frame struct {
	Content string `json:"content"`
}

func TestUnmarshalFrame_StrictJSON(t *testing.T) {
	var f frame
	if err := UnmarshalFrame(`{"content":"hello"}`, &f); err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}
	if f.Content != "hello" {
		t.Errorf("content = %q, want %q", f.Content, "hello")
	}
}

func TestUnmarshalFrame_RepairsSloppyJSON(t *testing.T) {
	// Single quotes and unquoted keys are the classic vendor slip-ups.
	var f frame
	if err := UnmarshalFrame(`{content: 'fixed'}`, &f); err != nil {
		t.Fatalf("UnmarshalFrame on repairable input: %v", err)
	}
	if f.Content != "fixed" {
		t.Errorf("content = %q, want %q", f.Content, "fixed")
	}
}

func TestUnmarshalFrame_UnrepairableReturnsError(t *testing.T) {
	var f frame
	if err := UnmarshalFrame(``, &f); err == nil {
		t.Error("expected error for empty frame")
	}
}
