package codec

import (
	"strings"
	"testing"
)

type sampleRecord struct {
	EventID string            `cbor:"event_id"`
	Faction string            `cbor:"faction,omitempty"`
	Crews   int               `cbor:"crews"`
	Labels  map[string]string `cbor:"labels,omitempty"`
}

type sampleJSONRecord struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{EventID: "evt-1", Faction: "A", Crews: 3}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.EventID != original.EventID || decoded.Faction != original.Faction || decoded.Crews != original.Crews {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	first, err := Marshal(sampleRecord{EventID: "e", Labels: map[string]string{"zulu": "1", "alpha": "2", "mike": "3"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(sampleRecord{EventID: "e", Labels: map[string]string{"mike": "3", "alpha": "2", "zulu": "1"}})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if Checksum(again) != Checksum(first) {
			t.Fatal("expected identical bytes for identical data")
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	data, err := Marshal(sampleJSONRecord{Version: 2, Name: "roster"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diag, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diag, `"version"`) || !strings.Contains(diag, `"name"`) {
		t.Fatalf("diagnostic %q missing json tag names", diag)
	}
}

func TestUnmarshalAnyUsesStringMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"crews": map[string]any{"A": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := top["crews"].(map[string]any); !ok {
		t.Fatalf("nested type = %T, want map[string]any", top["crews"])
	}
}

func TestChecksumIsHexSHA256(t *testing.T) {
	if got := Checksum(nil); len(got) != 64 {
		t.Fatalf("checksum length = %d, want 64", len(got))
	}
}
