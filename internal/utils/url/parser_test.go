package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///", "mailto:shop@example.com"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://example.com/store/", "mouse", "https://example.com/store/mouse"},
		{"https://example.com/store/", "/p/1", "https://example.com/p/1"},
		{"https://example.com/store", "https://other.com/x", "https://other.com/x"},
		{"https://example.com/store", " ?page=2 ", "https://example.com/store?page=2"},
	}

	for _, tt := range tests {
		got, err := ResolveURL(tt.base, tt.href)
		if err != nil {
			t.Fatalf("ResolveURL(%q, %q) error: %v", tt.base, tt.href, err)
		}
		if got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"HTTPS://Example.com":            "https://example.com/",
		"https://example.com/store#top":  "https://example.com/store",
		"https://example.com/a?b=1":      "https://example.com/a?b=1",
		"https://EXAMPLE.com/Case/Path/": "https://example.com/Case/Path/",
	}

	for in, want := range tests {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
