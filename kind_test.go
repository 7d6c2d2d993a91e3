package izone

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"crypto", KindCrypto},
		{"exchange", KindExchange},
		{"repos", KindRepos},
		{"github", KindRepos},
		{"  Crypto ", KindCrypto},
		{"EXCHANGE", KindExchange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if err != nil {
				t.Fatalf("ParseKind(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseKind_Unknown(t *testing.T) {
	for _, input := range []string{"", "weather", "stocks"} {
		if _, err := ParseKind(input); err == nil {
			t.Errorf("ParseKind(%q) expected error, got nil", input)
		}
	}
}

func TestKind_Valid(t *testing.T) {
	if !KindCrypto.Valid() || !KindExchange.Valid() || !KindRepos.Valid() {
		t.Error("built-in kinds should be valid")
	}
	if Kind("github").Valid() {
		t.Error("aliases are not kinds; Valid() should be false")
	}
}
