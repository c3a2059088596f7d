package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDurationUnmarshal_String(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"5m"`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != 5*time.Minute {
		t.Fatalf("expected 5m, got %v", d.Duration)
	}
}

func TestDurationUnmarshal_Number(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`1000000000`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != time.Second {
		t.Fatalf("expected 1s, got %v", d.Duration)
	}
}

func TestDurationUnmarshal_Invalid(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatal("expected error for boolean input")
	}
}
