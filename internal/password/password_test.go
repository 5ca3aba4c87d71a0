package password

import (
	"crypto"
	"errors"
	"testing"
)

func TestHash_KnownVectors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"admin", "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		got, err := Hash(tt.in)
		if err != nil {
			t.Fatalf("Hash(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Hash(%q) = %s; want %s", tt.in, got, tt.want)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	a, _ := Hash("s3cret")
	b, _ := Hash("s3cret")
	if a != b {
		t.Fatalf("expected equal digests, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d; want 64", len(a))
	}
}

func TestMatches(t *testing.T) {
	digest, _ := Hash("pw")
	ok, err := Matches("pw", digest)
	if err != nil || !ok {
		t.Fatalf("Matches(pw) = %v, %v; want true, nil", ok, err)
	}
	ok, _ = Matches("PW", digest)
	if ok {
		t.Error("Matches is expected to be case-sensitive")
	}
}

func TestHash_Unavailable(t *testing.T) {
	old := algorithm
	algorithm = crypto.Hash(0)
	defer func() { algorithm = old }()

	if _, err := Hash("x"); !errors.Is(err, ErrHashingUnavailable) {
		t.Fatalf("Hash error = %v; want ErrHashingUnavailable", err)
	}
}
