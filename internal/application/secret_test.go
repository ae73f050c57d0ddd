package application

import (
	"errors"
	"strings"
	"testing"
)

func fastParams() Argon2idParams {
	params := DefaultArgon2idParams
	params.Memory = 8 * 1024
	params.Iterations = 1
	return params
}

func TestHashSecret(t *testing.T) {
	t.Parallel()

	hashed, err := HashSecret(" abc123 ", fastParams())
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	if !strings.HasPrefix(hashed, "$argon2id$v=19$m=8192,t=1,p=2$") {
		t.Fatalf("unexpected encoding %s", hashed)
	}
	if err := VerifySecret(hashed, "ABC123"); err != nil {
		t.Fatalf("expected normalized secret to verify: %v", err)
	}
	if err := VerifySecret(hashed, "ABC124"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	other, err := HashSecret("ABC123", fastParams())
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	if other == hashed {
		t.Fatal("expected distinct salts")
	}
}

func TestVerifySecret_Malformed(t *testing.T) {
	t.Parallel()

	if err := VerifySecret("plain", "X"); !errors.Is(err, ErrInvalidSecretHash) {
		t.Fatalf("expected ErrInvalidSecretHash for plain text, got %v", err)
	}
	if err := VerifySecret("$bcrypt$a$b$c$d", "X"); !errors.Is(err, ErrInvalidSecretHash) {
		t.Fatalf("expected ErrInvalidSecretHash for foreign scheme, got %v", err)
	}
	if err := VerifySecret("$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA", "X"); !errors.Is(err, ErrIncompatibleSecretVersion) {
		t.Fatalf("expected ErrIncompatibleSecretVersion, got %v", err)
	}
}

func TestMatchSecret(t *testing.T) {
	t.Parallel()

	hashed, err := HashSecret("Q9", fastParams())
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	tests := []struct {
		name      string
		stored    string
		candidate string
		want      bool
	}{
		{name: "exact", stored: "K7PQ", candidate: "K7PQ", want: true},
		{name: "lower-case entry", stored: "K7PQ", candidate: "k7pq", want: true},
		{name: "padded entry", stored: "K7PQ", candidate: "  K7PQ\t", want: true},
		{name: "mismatch", stored: "K7PQ", candidate: "K7PR", want: false},
		{name: "empty candidate", stored: "", candidate: "  ", want: false},
		{name: "hashed", stored: hashed, candidate: "q9", want: true},
		{name: "hashed mismatch", stored: hashed, candidate: "Q8", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MatchSecret(tt.stored, tt.candidate); got != tt.want {
				t.Fatalf("MatchSecret(%q, %q) = %v, want %v", tt.stored, tt.candidate, got, tt.want)
			}
		})
	}
}
