package internal

import (
	"strconv"
	"testing"
)

func TestNewActivationCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := NewActivationCode()
		if err != nil {
			t.Fatalf("NewActivationCode failed: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < activationCodeMin || n > activationCodeMax {
			t.Fatalf("code out of range: %q", code)
		}
	}
}
