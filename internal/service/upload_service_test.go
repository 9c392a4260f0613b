package service

import "testing"

func TestIsAllowedExtension(t *testing.T) {
	allowed := []string{"jpg", ".jpeg", "png", " gif "}

	cases := []struct {
		ext  string
		want bool
	}{
		{".jpg", true},
		{".jpeg", true},
		{".png", true},
		{".gif", true},
		{".webp", false},
		{".exe", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isAllowedExtension(tc.ext, allowed); got != tc.want {
			t.Errorf("isAllowedExtension(%q) want %v got %v", tc.ext, tc.want, got)
		}
	}
}

func TestIsAllowedContentType(t *testing.T) {
	allowed := []string{"image/jpeg", "image/png", "image/gif"}

	if !isAllowedContentType("image/PNG", allowed) {
		t.Fatalf("content type match should be case insensitive")
	}
	if isAllowedContentType("application/octet-stream", allowed) {
		t.Fatalf("octet-stream should be rejected")
	}
	if isAllowedContentType("text/html; charset=utf-8", allowed) {
		t.Fatalf("html should be rejected")
	}
}
