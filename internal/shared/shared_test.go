package shared

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	t.Run("returns a uuid string", func(t *testing.T) {
		id := GenerateID()
		if len(id) != 36 {
			t.Errorf("GenerateID() length = %d, want 36", len(id))
		}
	})

	t.Run("returns unique values", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			id := GenerateID()
			if _, ok := seen[id]; ok {
				t.Fatalf("GenerateID() returned duplicate %v", id)
			}
			seen[id] = struct{}{}
		}
	})
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if a == b {
		t.Errorf("GenerateState() returned the same token twice: %v", a)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if string(out) != `{"key":"value"}` {
			t.Errorf("MarshalJSON() = %s", out)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Errorf("expected indented output, got %s", out)
		}
	})
}

func TestOpenBrowser(t *testing.T) {
	t.Run("unsupported platform", func(t *testing.T) {
		original := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = original }()

		if err := OpenBrowser("http://localhost"); err == nil {
			t.Error("expected error on unsupported platform")
		}
	})
}

func TestNewLogger(t *testing.T) {
	if logger := NewLogger(nil); logger == nil {
		t.Error("expected non-nil logger")
	}
}
