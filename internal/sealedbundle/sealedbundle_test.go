package sealedbundle

import "testing"

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey() error: %v", err)
	}
	files := map[string][]byte{
		"invoice.pdf": []byte("fabricated invoice contents"),
		"memo.txt":    []byte("internal memo"),
	}

	bundle, err := Seal(files, key)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	opened, err := Open(bundle, key)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	for name, data := range files {
		if string(opened[name]) != string(data) {
			t.Errorf("file %q: expected %q, got %q", name, data, opened[name])
		}
	}
}

func TestOpenWithWrongKeyFails(t *testing.T) {
	key, _ := NewKey()
	wrongKey, _ := NewKey()
	bundle, err := Seal(map[string][]byte{"a.txt": []byte("secret")}, key)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if _, err := Open(bundle, wrongKey); err == nil {
		t.Fatalf("expected Open() to fail with the wrong key")
	}
}

func TestOpenRejectsUnsupportedAlgorithm(t *testing.T) {
	key, _ := NewKey()
	bundle := []byte(`{"version":1,"algorithm":"AES-128-CBC","files":[]}`)
	if _, err := Open(bundle, key); err == nil {
		t.Fatalf("expected Open() to reject an unsupported algorithm")
	}
}
