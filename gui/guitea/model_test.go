package guitea

import "testing"

func TestPadKeyIndex(t *testing.T) {
	cases := map[string]int{
		"1": 0, "4": 3,
		"q": 4, "r": 7,
		"a": 8, "f": 11,
		"z": 12, "v": 15,
	}
	for key, want := range cases {
		got, ok := padKeyIndex(key)
		if !ok || got != want {
			t.Errorf("padKeyIndex(%q) = (%d, %v), want (%d, true)", key, got, ok, want)
		}
	}
}

func TestPadKeyIndexUnknown(t *testing.T) {
	if _, ok := padKeyIndex("y"); ok {
		t.Fatalf("padKeyIndex(y) should not resolve to a pad")
	}
}
