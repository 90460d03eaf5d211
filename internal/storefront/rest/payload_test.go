package rest

import (
	"testing"
)

func TestDecodeListBareArray(t *testing.T) {
	items, err := decodeList[string]([]byte(`["a", "b"]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0] != "a" || items[1] != "b" {
		t.Fatalf("unexpected items %v", items)
	}
}

func TestDecodeListEnvelope(t *testing.T) {
	payload := []byte(`{"count": 2, "next": null, "results": ["a", "b"]}`)
	items, err := decodeList[string](payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestDecodeListUnrecognizedShapes(t *testing.T) {
	cases := map[string]string{
		"object without results": `{"count": 2}`,
		"scalar":                 `42`,
		"string":                 `"nope"`,
		"empty":                  ``,
		"results not a list":     `{"results": {"a": 1}}`,
		"broken json":            `[{"a":`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := decodeList[string]([]byte(payload)); err == nil {
				t.Fatalf("expected unrecognized shape error for %q", payload)
			}
		})
	}
}
