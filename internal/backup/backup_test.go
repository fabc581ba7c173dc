package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopspring/decimal"
)

// fakeS3 answers the handful of path-style S3 calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2025-01-01T00:00:00Z</LastModified></Contents>", k, len(f.objects[k]))
		}
		b.WriteString("</ListBucketResult>")
		return respond(200, []byte(b.String()), "application/xml"), nil
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objects[key] = body
		return respond(200, nil, ""), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return respond(404, nil, ""), nil
		}
		return respond(200, body, "application/json"), nil
	}
	return respond(501, nil, ""), nil
}

func respond(status int, body []byte, contentType string) *http.Response {
	h := http.Header{"Content-Length": {strconv.Itoa(len(body))}}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: h, ContentLength: int64(len(body))}
}

// decodeChunked unwraps a single-chunk aws-chunked body.
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || parts[2] != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newFakeStore(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		t.Fatalf("cfg: %v", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	return NewS3StoreFromClient(client, "backups-bucket"), fake
}

func testState(stock int) *model.State {
	return &model.State{
		Items: []model.Item{{ID: "b1", Name: "Normal Brainrot", Desc: "Basic Brainrot.", Stock: stock, Price: decimal.NewFromInt(100)}},
	}
}

func TestManagerBackupAndFetch(t *testing.T) {
	store, fake := newFakeStore(t)
	m := NewManager(store, "/backups/", "ns")
	ctx := context.Background()

	clock := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	first, err := m.Backup(ctx, testState(5))
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if first.Key != "backups/ns/20250601T100000.000000000Z.json" {
		t.Fatalf("key = %s", first.Key)
	}

	clock = clock.Add(time.Hour)
	if _, err := m.Backup(ctx, testState(4)); err != nil {
		t.Fatalf("second backup: %v", err)
	}
	if len(fake.objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(fake.objects))
	}

	objects, err := m.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objects) != 2 || !strings.Contains(objects[0].Key, "T110000") {
		t.Fatalf("expected newest first, got %+v", objects)
	}

	key, latest, err := m.Fetch(ctx, "")
	if err != nil {
		t.Fatalf("fetch latest: %v", err)
	}
	if key != objects[0].Key || latest.Items[0].Stock != 4 {
		t.Fatalf("latest = %s %+v", key, latest.Items)
	}

	_, older, err := m.Fetch(ctx, first.Key)
	if err != nil {
		t.Fatalf("fetch first: %v", err)
	}
	if older.Items[0].Stock != 5 {
		t.Errorf("stock = %d, want 5", older.Items[0].Stock)
	}

	if _, _, err := m.Fetch(ctx, "backups/ns/missing.json"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestFetchWithoutBackups(t *testing.T) {
	store, _ := newFakeStore(t)
	m := NewManager(store, "backups", "empty")
	if _, _, err := m.Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected error when no backups exist")
	}
}

func TestDiff(t *testing.T) {
	same, err := Diff(testState(5), testState(5))
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if same != "" {
		t.Fatalf("expected empty diff, got %q", same)
	}

	d, err := Diff(testState(5), testState(3))
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(d, `-      "stock": 5,`) || !strings.Contains(d, `+      "stock": 3,`) {
		t.Fatalf("unexpected diff:\n%s", d)
	}
	for _, line := range strings.Split(strings.TrimSpace(d), "\n") {
		if line[0] != '+' && line[0] != '-' {
			t.Errorf("unmarked line %q", line)
		}
	}
}
