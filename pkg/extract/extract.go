package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"github.com/markusmobius/go-trafilatura"
)

const (
	maxPDFPages   = 500
	maxFetchBytes = 10 * 1024 * 1024
)

var (
	ErrUnsupported = errors.New("unsupported document type")
	ErrInvalidURL  = errors.New("url document does not contain a valid http(s) url")
	ErrFetch       = errors.New("failed to fetch url document")
)

// docconvTypes are handed to docconv; plain text, PDF and .url files have
// their own readers.
var docconvTypes = map[string]bool{
	".docx":  true,
	".doc":   true,
	".odt":   true,
	".rtf":   true,
	".html":  true,
	".htm":   true,
	".xml":   true,
	".pages": true,
}

type IExtractor interface {
	Supported(name string) bool
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

type Extractor struct {
	client *http.Client
}

func New(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Extractor{client: client}
}

func (e *Extractor) Supported(name string) bool {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".txt", ".md", ".pdf", ".url":
		return true
	default:
		return docconvTypes[ext]
	}
}

// Extract returns the plain text of a document, picking the reader from the
// file extension. Surrounding whitespace is trimmed; an empty string means the
// document had no text.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(name)); {
	case ext == ".txt" || ext == ".md":
		text = string(data)
	case ext == ".pdf":
		text, err = pdfText(data)
	case ext == ".url":
		text, err = e.urlText(ctx, data)
	case docconvTypes[ext]:
		text, err = docconvText(name, data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", name, err)
	}

	return strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n")), nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := reader.NumPage()
	if pages > maxPDFPages {
		return "", fmt.Errorf("pdf has %d pages, limit is %d", pages, maxPDFPages)
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}

	return sb.String(), nil
}

func (e *Extractor) urlText(ctx context.Context, data []byte) (string, error) {
	target, err := firstURL(data)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %d", ErrFetch, target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL:     target,
		EnableFallback:  true,
		ExcludeComments: true,
	})
	if err != nil {
		return "", fmt.Errorf("extract page %s: %w", target, err)
	}
	if result == nil {
		return "", nil
	}

	if title := strings.TrimSpace(result.Metadata.Title); title != "" && !strings.HasPrefix(result.ContentText, title) {
		return title + "\n\n" + result.ContentText, nil
	}
	return result.ContentText, nil
}

// firstURL reads the first non-empty line of a .url file. Windows internet
// shortcuts ("URL=..." under [InternetShortcut]) are accepted too.
func firstURL(data []byte) (*url.URL, error) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		line = strings.TrimPrefix(line, "URL=")

		u, err := url.Parse(line)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, ErrInvalidURL
		}
		return u, nil
	}
	return nil, ErrInvalidURL
}

func docconvText(name string, data []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(name), true)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}
