package surveys

import "testing"

func TestSplitAndJoinTags(t *testing.T) {
	got := SplitTags(" US, uk ,, US , CA")
	want := []string{"US", "uk", "CA"}
	if !equalIDs(got, want) {
		t.Fatalf("SplitTags() = %v, want %v", got, want)
	}
	if joined := JoinTags(got); joined != "US, uk, CA" {
		t.Fatalf("JoinTags() = %q", joined)
	}
	if SplitTags("  ") != nil {
		t.Fatal("пустая строка даёт пустой список")
	}
}

func TestNormalizeLink(t *testing.T) {
	tests := map[string]string{
		"forms.google.com/x":  "https://forms.google.com/x",
		"http://example.com":  "http://example.com",
		"HTTPS://example.com": "HTTPS://example.com",
		"  ":                  "",
	}
	for in, want := range tests {
		if got := NormalizeLink(in); got != want {
			t.Fatalf("NormalizeLink(%q) = %q, want %q", in, got, want)
		}
	}
}
