package domain

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "punctuation runs collapse",
			title:    "AI --- Tools: For Educators",
			expected: "ai-tools-for-educators",
		},
		{
			name:     "leading and trailing junk stripped",
			title:    "  ***Khanmigo***  ",
			expected: "khanmigo",
		},
		{
			name:     "already a slug",
			title:    "already-a-slug",
			expected: "already-a-slug",
		},
		{
			name:     "hostname style input",
			title:    "example.com/tools",
			expected: "example-com-tools",
		},
		{
			name:     "empty",
			title:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.expected)
			}
			// Deterministic: repeated calls agree
			if again := Slugify(tt.title); again != got {
				t.Errorf("Slugify(%q) not deterministic: %q vs %q", tt.title, got, again)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		expected string
	}{
		{
			name:     "missing scheme",
			rawURL:   "example.com",
			expected: "https://example.com",
		},
		{
			name:     "https kept",
			rawURL:   "https://example.com",
			expected: "https://example.com",
		},
		{
			name:     "http kept",
			rawURL:   "http://example.com",
			expected: "http://example.com",
		},
		{
			name:     "whitespace trimmed",
			rawURL:   "  example.com  ",
			expected: "https://example.com",
		},
		{
			name:     "empty stays empty",
			rawURL:   "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.rawURL); got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.rawURL, got, tt.expected)
			}
		})
	}
}

func TestStripScheme(t *testing.T) {
	tests := []struct {
		rawURL   string
		expected string
	}{
		{"https://www.example.com/path", "example.com/path"},
		{"http://example.com", "example.com"},
		{"example.com", "example.com"},
	}

	for _, tt := range tests {
		if got := StripScheme(tt.rawURL); got != tt.expected {
			t.Errorf("StripScheme(%q) = %q, want %q", tt.rawURL, got, tt.expected)
		}
	}
}

func TestHostname(t *testing.T) {
	if got := Hostname("example.com/some/path"); got != "example.com" {
		t.Errorf("Hostname() = %q, want example.com", got)
	}
	if got := Hostname("https://sub.example.com:8443/x"); got != "sub.example.com" {
		t.Errorf("Hostname() = %q, want sub.example.com", got)
	}
}
