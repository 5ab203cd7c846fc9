package env

import "testing"

func TestGetFallsBackWhenUnset(t *testing.T) {
	if got := Get("COPILOT_ENV_TEST_UNSET", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetReturnsTrimmedValue(t *testing.T) {
	t.Setenv("COPILOT_ENV_TEST_SET", "  console ")
	if got := Get("COPILOT_ENV_TEST_SET", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestGetTreatsBlankAsUnset(t *testing.T) {
	t.Setenv("COPILOT_ENV_TEST_BLANK", "   ")
	if got := Get("COPILOT_ENV_TEST_BLANK", "json"); got != "json" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}
