package s3store

import "testing"

func TestKeyLayout(t *testing.T) {
	s := New(nil, "portfolio-assets", "portfolio", "")

	if got := s.key("IMG-0042", ".jpg"); got != "portfolio/IMG-0042.jpg" {
		t.Errorf("key = %q, want portfolio/IMG-0042.jpg", got)
	}
}

func TestNewNormalizesNamespaceAndBaseURL(t *testing.T) {
	s := New(nil, "portfolio-assets", "/gallery/", "https://photos.example.com/")

	if s.namespace != "gallery" {
		t.Errorf("namespace = %q, want gallery", s.namespace)
	}
	if s.baseURL != "https://photos.example.com" {
		t.Errorf("baseURL = %q, trailing slash not trimmed", s.baseURL)
	}
	if got := s.key("IMG-0001", ".png"); got != "gallery/IMG-0001.png" {
		t.Errorf("key = %q, want gallery/IMG-0001.png", got)
	}
}

func TestNewDefaultBaseURL(t *testing.T) {
	s := New(nil, "portfolio-assets", "portfolio", "")

	want := "https://portfolio-assets.s3.amazonaws.com"
	if s.baseURL != want {
		t.Errorf("baseURL = %q, want %q", s.baseURL, want)
	}
}
