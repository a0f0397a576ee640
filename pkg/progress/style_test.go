package progress

import (
	"errors"
	"testing"
)

func TestStyleByName(t *testing.T) {
	for _, name := range StyleNames() {
		if _, err := StyleByName(name); err != nil {
			t.Errorf("StyleByName(%q): %v", name, err)
		}
	}

	s, err := StyleByName(" Line ")
	if err != nil {
		t.Fatalf("StyleByName: %v", err)
	}
	if s != LineUTF8 {
		t.Fatalf("expected LineUTF8, got %+v", s)
	}

	s, err = StyleByName("")
	if err != nil || s != DefaultStyle {
		t.Fatalf("expected DefaultStyle for empty name, got %+v, %v", s, err)
	}
}

func TestStyleByName_Unknown(t *testing.T) {
	_, err := StyleByName("rainbow")
	if !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}
