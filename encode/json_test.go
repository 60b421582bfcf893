package encode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	data := sample{Name: "bfi", Count: 3}
	n, err := WriteJSON(path, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero bytes written")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading back file: %v", err)
	}

	var got sample
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unexpected error unmarshalling: %v", err)
	}
	if got != data {
		t.Errorf("got %+v, want %+v", got, data)
	}
}

func TestJSONDumps(t *testing.T) {
	data := sample{Name: "bfi", Count: 3}
	s, err := JSONDumps(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != `{"name":"bfi","count":3}` {
		t.Errorf("got %s", s)
	}
}

func TestJSONIndentDumps(t *testing.T) {
	data := sample{Name: "bfi", Count: 3}
	s, err := JSONIndentDumps(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var roundtrip sample
	if err := json.Unmarshal([]byte(s), &roundtrip); err != nil {
		t.Fatalf("unexpected error unmarshalling: %v", err)
	}
	if roundtrip != data {
		t.Errorf("got %+v, want %+v", roundtrip, data)
	}
}
