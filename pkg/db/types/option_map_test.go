package types

import "testing"

func TestOptionMapRoundTrip(t *testing.T) {
	m := OptionMap{"size": "M", "color": "Blue"}

	value, err := m.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}

	var decoded OptionMap
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if decoded["size"] != "M" || decoded["color"] != "Blue" {
		t.Fatalf("unexpected decode: %v", decoded)
	}
}

func TestOptionMapNilStaysNull(t *testing.T) {
	var m OptionMap
	value, err := m.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if value != nil {
		t.Fatalf("nil map should persist as NULL, got %v", value)
	}

	var decoded OptionMap
	if err := decoded.Scan(nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if decoded != nil {
		t.Fatalf("expected nil map, got %v", decoded)
	}
}
