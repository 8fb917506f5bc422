package formatter

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(700 * 1024); got != "700 KiB" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSize(1500); got != "1,500 bytes" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("  hello  ", 10); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("안녕하세요 여러분", 5); got != "안녕하세요…" {
		t.Fatalf("got %q", got)
	}
}
