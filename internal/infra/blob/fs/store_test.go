package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"travelcore/internal/blob/core"
)

func TestStoreRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blobs")
	store, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.Root() != root || store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected store %s %s", store.Root(), store.Driver())
	}
	ctx := context.Background()
	payload := []byte("node;1;2\n")
	info, err := store.Put(ctx, "runs/a/pnr.csv", bytes.NewReader(payload), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"pass": "2"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(payload)) || len(info.ETag) != 64 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := os.Stat(filepath.Join(root, "runs", "a", "pnr.csv.meta")); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if _, err := store.Put(ctx, "runs/a/pnr.csv", bytes.NewReader(payload), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists, got %v", err)
	}

	got, rc, err := store.Get(ctx, "runs/a/pnr.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(body, payload) || got.ContentType != "text/csv" || got.Metadata["pass"] != "2" || got.ETag != info.ETag {
		t.Fatalf("get mismatch %q %+v", body, got)
	}
	head, err := store.Head(ctx, "runs/a/pnr.csv")
	if err != nil || head.Size != info.Size {
		t.Fatalf("head: %v %+v", err, head)
	}

	if _, err := store.Put(ctx, "runs/b.csv", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put b: %v", err)
	}
	list, err := store.List(ctx, "runs/a/")
	if err != nil || len(list) != 1 || list[0].Key != "runs/a/pnr.csv" {
		t.Fatalf("list: %v %+v", err, list)
	}
	if all, _ := store.List(ctx, ""); len(all) != 2 || all[0].Key != "runs/a/pnr.csv" {
		t.Fatalf("list all: %+v", all)
	}

	if ok, err := store.Delete(ctx, "runs/a/pnr.csv"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "runs/a/pnr.csv"); err != nil || ok {
		t.Fatalf("second delete: %v %v", ok, err)
	}
	if _, _, err := store.Get(ctx, "runs/a/pnr.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found get, got %v", err)
	}
	if _, err := store.Head(ctx, "runs/a/pnr.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found head, got %v", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
		ok   bool
	}{
		{key: "a/b.csv", want: "a/b.csv", ok: true},
		{key: "a//b.csv", want: "a/b.csv", ok: true},
		{key: "", ok: false},
		{key: "   ", ok: false},
		{key: "../escape", ok: false},
		{key: "/abs", ok: false},
		{key: "x.meta", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			got, err := sanitizeKey(tc.key)
			if tc.ok != (err == nil) {
				t.Fatalf("sanitizeKey(%q) err=%v", tc.key, err)
			}
			if tc.ok && got != tc.want {
				t.Fatalf("sanitizeKey(%q)=%q want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestCorruptSidecar(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), "k.meta"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Head(ctx, "k"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, err := store.List(ctx, ""); err == nil {
		t.Fatalf("expected list decode error")
	}
}

func TestFileWithoutSidecar(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	dir := filepath.Join(store.Root(), "tables")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	payload := []byte("header\n1,2\n")
	if err := os.WriteFile(filepath.Join(dir, "pnr.csv"), payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	info, rc, err := store.Get(ctx, "tables/pnr.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(body, payload) || info.Size != int64(len(payload)) || info.LastModified.IsZero() {
		t.Fatalf("get mismatch %q %+v", body, info)
	}
	if head, err := store.Head(ctx, "tables/pnr.csv"); err != nil || head.Size != info.Size {
		t.Fatalf("head: %v %+v", err, head)
	}
	if list, err := store.List(ctx, "tables/"); err != nil || len(list) != 1 || list[0].Key != "tables/pnr.csv" {
		t.Fatalf("list: %v %+v", err, list)
	}
	if _, err := store.Put(ctx, "tables/pnr.csv", bytes.NewReader(payload), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists, got %v", err)
	}
	if _, err := store.Head(ctx, "tables"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("directory must not resolve as a blob, got %v", err)
	}
}
