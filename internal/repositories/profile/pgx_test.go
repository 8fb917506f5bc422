package profile

import (
	"reflect"
	"testing"
)

func TestSelectByUserID(t *testing.T) {
	query, args, err := selectByUserID("u-1")
	if err != nil {
		t.Fatalf("selectByUserID: %v", err)
	}

	want := "SELECT nickname, image_url FROM users WHERE id = $1 LIMIT 1"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"u-1"}) {
		t.Fatalf("args = %v", args)
	}
}
