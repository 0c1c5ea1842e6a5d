package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"travelcore/internal/blob/core"
)

func TestMockStoreRoundTrip(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	if store.Driver() != core.DriverS3 || store.Bucket() != "mock-bucket" {
		t.Fatalf("unexpected store %s %s", store.Driver(), store.Bucket())
	}
	if _, err := store.Head(ctx, "tables/pnr.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "tables/pnr.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found get, got %v", err)
	}
	payload := []byte("node;0\n1;2\n")
	info, err := store.Put(ctx, "tables/pnr.csv", bytes.NewReader(payload), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"pass": "3"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(payload)) || info.ContentType != "text/csv" || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "tables/pnr.csv", bytes.NewReader(payload), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists, got %v", err)
	}
	got, rc, err := store.Get(ctx, "tables/pnr.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(body, payload) {
		t.Fatalf("body mismatch %q", body)
	}
	if got.ETag != info.ETag || got.Metadata["pass"] != "3" {
		t.Fatalf("get info %+v, want etag %q", got, info.ETag)
	}
	if _, err := store.Put(ctx, "other.csv", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put other: %v", err)
	}
	list, err := store.List(ctx, "tables/")
	if err != nil || len(list) != 1 || list[0].Key != "tables/pnr.csv" {
		t.Fatalf("list: %v %+v", err, list)
	}
	if ok, err := store.Delete(ctx, "tables/pnr.csv"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "tables/pnr.csv"); err != nil || ok {
		t.Fatalf("second delete: %v %v", ok, err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
	t.Setenv("TRAVELCORE_BLOB_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatalf("expected env bucket error")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TRAVELCORE_BLOB_S3_BUCKET", "tables")
	t.Setenv("TRAVELCORE_BLOB_S3_REGION", "eu-north-1")
	t.Setenv("TRAVELCORE_BLOB_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("TRAVELCORE_BLOB_S3_PATH_STYLE", "TRUE")
	cfg := ConfigFromEnv()
	if cfg.Bucket != "tables" || cfg.Region != "eu-north-1" || cfg.Endpoint != "http://minio:9000" || !cfg.PathStyle {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
