package minio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type recordedPut struct {
	path        string
	contentType string
	body        string
}

func newTestArchive(t *testing.T, status int) (*Archive, *[]recordedPut) {
	t.Helper()

	var (
		mu   sync.Mutex
		puts []recordedPut
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusOK)
			return
		}
		body, err := readPayload(r)
		if err != nil {
			t.Errorf("read PUT body: %v", err)
		}
		mu.Lock()
		puts = append(puts, recordedPut{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: string(body)})
		mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio.New() error = %v", err)
	}
	return NewArchive(client, "pricing-files"), &puts
}

// readPayload returns the object bytes of a PUT, removing the aws-chunked
// framing minio-go adds when it signs a streamed body.
func readPayload(r *http.Request) (string, error) {
	if !strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		body, err := io.ReadAll(r.Body)
		return string(body), err
	}

	br := bufio.NewReader(r.Body)
	var payload strings.Builder
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("chunk header: %w", err)
		}
		sizeHex, _, _ := strings.Cut(strings.TrimRight(line, "\r\n"), ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return "", fmt.Errorf("chunk size %q: %w", sizeHex, err)
		}
		if size == 0 {
			return payload.String(), nil
		}
		if _, err := io.CopyN(&payload, br, size); err != nil {
			return "", fmt.Errorf("chunk data: %w", err)
		}
		if _, err := br.Discard(2); err != nil {
			return "", fmt.Errorf("chunk trailer: %w", err)
		}
	}
}

func TestReadPayload_Chunked(t *testing.T) {
	framed := "1d;chunk-signature=abc\r\ntype,product_id\nBASE_PRICE,d1\r\n0;chunk-signature=def\r\n\r\n"
	r := httptest.NewRequest(http.MethodPut, "/b/k", strings.NewReader(framed))
	r.Header.Set("X-Amz-Content-Sha256", "STREAMING-AWS4-HMAC-SHA256-PAYLOAD")

	got, err := readPayload(r)
	if err != nil {
		t.Fatalf("readPayload() error = %v", err)
	}
	if got != "type,product_id\nBASE_PRICE,d1" {
		t.Errorf("readPayload() = %q", got)
	}
}

func TestArchive_Put(t *testing.T) {
	archive, puts := newTestArchive(t, http.StatusOK)

	data := []byte("type,product_id\nBASE_PRICE,d1")
	if err := archive.Put(context.Background(), "exports/acme/file.csv", "text/csv", data); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if len(*puts) != 1 {
		t.Fatalf("PUT requests = %d, want 1", len(*puts))
	}
	got := (*puts)[0]
	if got.path != "/pricing-files/exports/acme/file.csv" {
		t.Errorf("path = %q", got.path)
	}
	if got.contentType != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", got.contentType)
	}
	if got.body != string(data) {
		t.Errorf("body = %q, want %q", got.body, data)
	}
}

func TestArchive_PutFailure(t *testing.T) {
	archive, _ := newTestArchive(t, http.StatusForbidden)

	err := archive.Put(context.Background(), "imports/acme/1/prices.csv", "text/csv", []byte("x"))
	if err == nil {
		t.Fatal("Put() expected error")
	}
	if !strings.Contains(err.Error(), "pricing-files/imports/acme/1/prices.csv") {
		t.Errorf("error should name the object: %v", err)
	}
}
