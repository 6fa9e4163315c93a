package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	e := New(nil)

	for name, want := range map[string]bool{
		"faq.txt":      true,
		"notes.MD":     true,
		"brochure.pdf": true,
		"clinic.url":   true,
		"policy.docx":  true,
		"index.html":   true,
		"photo.png":    false,
		"archive.zip":  false,
		"README":       false,
	} {
		if got := e.Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExtractPlainText(t *testing.T) {
	text, err := New(nil).Extract(context.Background(), "faq.txt", []byte("\r\nOpening hours are nine to five.\r\n\r\n"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Opening hours are nine to five." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractUnsupported(t *testing.T) {
	_, err := New(nil).Extract(context.Background(), "photo.png", []byte{0x89})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractInvalidPDF(t *testing.T) {
	if _, err := New(nil).Extract(context.Background(), "broken.pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected an error for an invalid pdf")
	}
}

const articleHTML = `<!DOCTYPE html>
<html><head><title>Clinic Visiting Hours</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Clinic Visiting Hours</h1>
<p>The clinic is open from eight in the morning until six in the evening on weekdays, and patients are asked to arrive ten minutes before their appointment so that registration can be completed without delaying the doctor.</p>
<p>On Saturdays the clinic opens at nine and closes at one in the afternoon. The clinic is closed on Sundays and public holidays, and urgent questions outside these hours should be directed to the emergency line.</p>
<p>Parking is available behind the main building, and the first two hours are free for patients who validate their ticket at the front desk before leaving the clinic.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestExtractURLDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hours" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	e := New(srv.Client())

	text, err := e.Extract(context.Background(), "hours.url", []byte("\n"+srv.URL+"/hours\n"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Saturdays the clinic opens at nine") {
		t.Fatalf("article text missing: %q", text)
	}

	_, err = e.Extract(context.Background(), "missing.url", []byte(srv.URL+"/missing"))
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFirstURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://example.com/faq\n", want: "https://example.com/faq"},
		{in: "[InternetShortcut]\nURL=http://example.com/a\n", want: "http://example.com/a"},
		{in: "ftp://example.com/file", wantErr: true},
		{in: "   \n\n", wantErr: true},
		{in: "example.com/no-scheme", wantErr: true},
	}

	for _, tc := range cases {
		u, err := firstURL([]byte(tc.in))
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("firstURL(%q) expected ErrInvalidURL, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("firstURL(%q): %v", tc.in, err)
			continue
		}
		if u.String() != tc.want {
			t.Errorf("firstURL(%q) = %s, want %s", tc.in, u, tc.want)
		}
	}
}
