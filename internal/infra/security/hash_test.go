package security

import (
	"strings"
	"testing"
)

func TestArgon2HasherRoundTrip(t *testing.T) {
	hasher := NewArgon2Hasher()
	password := "correct horse battery staple"

	encoded, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if encoded == password || strings.Contains(encoded, password) {
		t.Fatal("encoded hash leaks the plaintext")
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		t.Fatalf("unexpected hash format: %q", encoded)
	}
	if parts[0] != argon2Variant || parts[1] != argon2Version {
		t.Fatalf("unexpected variant/version: %s$%s", parts[0], parts[1])
	}

	if !hasher.Verify(password, encoded) {
		t.Fatal("Verify rejected the correct password")
	}
}

func TestArgon2HasherRejectsWrongPassword(t *testing.T) {
	hasher := NewArgon2Hasher()

	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if hasher.Verify("Tr0ub4dor&3", encoded) {
		t.Fatal("Verify accepted an incorrect password")
	}
}

func TestArgon2HasherSaltsEachCall(t *testing.T) {
	hasher := NewArgon2Hasher()

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password are identical; salt is not random")
	}

	if !hasher.Verify("same password", first) || !hasher.Verify("same password", second) {
		t.Fatal("Verify rejected one of the salted hashes")
	}
}

func TestArgon2HasherMalformedEncodings(t *testing.T) {
	hasher := NewArgon2Hasher()

	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong variant", "bcrypt$v=19$m=65536,t=3,p=4$AAAA$BBBB"},
		{"wrong version", "argon2id$v=16$m=65536,t=3,p=4$AAAA$BBBB"},
		{"bad params", "argon2id$v=19$m=banana$AAAA$BBBB"},
		{"zero params", "argon2id$v=19$m=0,t=0,p=0$AAAA$BBBB"},
		{"bad salt encoding", "argon2id$v=19$m=65536,t=3,p=4$%%%%$BBBB"},
		{"bad digest encoding", "argon2id$v=19$m=65536,t=3,p=4$AAAA$%%%%"},
		{"missing digest", "argon2id$v=19$m=65536,t=3,p=4$AAAA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if hasher.Verify("whatever", tc.encoded) {
				t.Fatalf("Verify accepted malformed encoding %q", tc.encoded)
			}
		})
	}
}
