package snake

import (
	"reflect"
	"testing"
)

func TestPositional(t *testing.T) {
	tests := map[string][]string{
		"move ID DAY SLOT":  {"ID", "DAY", "SLOT"},
		"rooms [DAY SLOT]":  nil,
		"get":               nil,
		"import FILE [--x]": {"FILE"},
	}
	for use, want := range tests {
		if got := Positional(use); !reflect.DeepEqual(got, want) {
			t.Errorf("Positional(%q) = %v, want %v", use, got, want)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"yes", "oui", "true", "1"} {
		if b, err := ParseBool(v); err != nil || !b {
			t.Errorf("ParseBool(%q) = %v, %v", v, b, err)
		}
	}
	for _, v := range []string{"no", "non", "false", "0"} {
		if b, err := ParseBool(v); err != nil || b {
			t.Errorf("ParseBool(%q) = %v, %v", v, b, err)
		}
	}
	if _, err := ParseBool("peut-être"); err == nil {
		t.Error("expected error")
	}
}
