package storage

import "testing"

func TestObjectKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cat.png", "public/cat.png"},
		{"../../etc/passwd", "public/passwd"},
		{`C:\Users\ada\dog.jpg`, "public/dog.jpg"},
		{"", "public/image"},
		{"dir/", "public/dir"},
	}

	for _, tt := range tests {
		if got := ObjectKey(tt.in); got != tt.want {
			t.Errorf("ObjectKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
