package minioimpl

import (
	"net/url"
	"testing"
)

func TestPublicBase(t *testing.T) {
	endpoint := &url.URL{Scheme: "http", Host: "localhost:9000"}

	if got := publicBase("", endpoint, "community-post-image"); got != "http://localhost:9000/community-post-image" {
		t.Fatalf("derived base = %q", got)
	}
	if got := publicBase("https://cdn.example.com/images/", endpoint, "community-post-image"); got != "https://cdn.example.com/images" {
		t.Fatalf("configured base = %q", got)
	}
}

func TestPublicURL(t *testing.T) {
	m := &MinioImpl{publicBase: "http://localhost:9000/community-post-image"}

	got := m.PublicURL("public/cat.png")
	if got != "http://localhost:9000/community-post-image/public/cat.png" {
		t.Fatalf("PublicURL = %q", got)
	}
}
