package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const listResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>docs</Name>
  <Prefix>faq/</Prefix>
  <KeyCount>3</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>faq/</Key><Size>0</Size></Contents>
  <Contents><Key>faq/hours.txt</Key><Size>18</Size><LastModified>2026-01-02T03:04:05.000Z</LastModified></Contents>
  <Contents><Key>faq/parking.md</Key><Size>7</Size><LastModified>2026-01-02T03:04:05.000Z</LastModified></Contents>
</ListBucketResult>`

func newTestClient(t *testing.T) ItfS3 {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/docs" || r.URL.Path == "/docs/":
			if r.URL.Query().Get("list-type") != "2" || r.URL.Query().Get("prefix") != "faq/" {
				http.Error(w, "unexpected list request", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, listResponse)
		case r.URL.Path == "/docs/faq/hours.txt":
			w.Header().Set("Content-Length", "18")
			fmt.Fprint(w, "open nine to five.")
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{
		Region:          "us-east-1",
		Bucket:          "docs",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        srv.URL,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestListSkipsFolders(t *testing.T) {
	objects, err := newTestClient(t).List(context.Background(), "faq/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %+v", objects)
	}
	if objects[0].Key != "faq/hours.txt" || objects[0].Size != 18 {
		t.Fatalf("unexpected first object %+v", objects[0])
	}
	if objects[0].LastModified.Year() != 2026 {
		t.Fatalf("last modified not parsed: %v", objects[0].LastModified)
	}
}

func TestDownload(t *testing.T) {
	client := newTestClient(t)

	data, err := client.Download(context.Background(), "faq/hours.txt")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "open nine to five." {
		t.Fatalf("unexpected body %q", data)
	}

	_, err = client.Download(context.Background(), "faq/missing.txt")
	if err == nil || !strings.Contains(err.Error(), "faq/missing.txt") {
		t.Fatalf("expected download error naming the key, got %v", err)
	}
}
