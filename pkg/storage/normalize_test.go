package storage

import "testing"

func TestNormalizeTarget(t *testing.T) {
	tests := map[string]string{
		"  https://App.Example.com:443/path/ ": "https://app.example.com/path",
		"http://example.com:80":               "http://example.com",
		"0xAbCdEf":                            "0xabcdef",
		"Example.COM.":                        "example.com",
		"":                                    "",
	}
	for in, want := range tests {
		if got := NormalizeTarget(in); got != want {
			t.Fatalf("NormalizeTarget(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeProgramURL(t *testing.T) {
	if got := NormalizeProgramURL("https://Immunefi.com/bounty/example/"); got != "https://immunefi.com/bounty/example" {
		t.Fatalf("unexpected program URL %q", got)
	}
}
