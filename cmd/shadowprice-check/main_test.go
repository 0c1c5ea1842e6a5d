package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"travelcore/internal/blob"
	"travelcore/internal/shadowprice"
)

func tableBytes(t *testing.T, delim rune) []byte {
	t.Helper()
	a := &shadowprice.NodeState{NodeID: 7}
	b := &shadowprice.NodeState{NodeID: 3}
	for i := range a.ShadowPrice {
		a.ShadowPrice[i] = 2
		a.ExogenousLoad[i] = 10
	}
	a.ParkAndRideLoad[600] = 5
	b.ShadowPriceDifference[100] = -1.5
	var buf bytes.Buffer
	if err := shadowprice.Encode(&buf, shadowprice.Table{7: a, 3: b}, delim); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pnr.csv")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestCLISummarisesFile(t *testing.T) {
	path := writeFile(t, tableBytes(t, ';'))
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-file", path, "-delimiter", ";"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", stdout.String())
	}
	if !strings.HasPrefix(lines[1], "3 ") || !strings.HasPrefix(lines[2], "7 ") {
		t.Fatalf("rows not in node order: %q", lines)
	}
	if fields := strings.Fields(lines[2]); fields[1] != "15" || fields[3] != "2" {
		t.Fatalf("unexpected node 7 summary %v", fields)
	}
}

func TestCLIJSON(t *testing.T) {
	path := writeFile(t, tableBytes(t, ','))
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-file", path, "-format", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	var reports []shadowprice.NodeReport
	if err := json.Unmarshal(stdout.Bytes(), &reports); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(reports) != 2 || reports[0].NodeID != 3 || reports[0].MaxAbsDifference != 1.5 {
		t.Fatalf("unexpected reports %+v", reports)
	}
}

func TestCLIReadsConfiguredBlobStore(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TRAVELCORE_BLOB_DRIVER", "fs")
	t.Setenv("TRAVELCORE_BLOB_FS_ROOT", root)
	store, err := blob.NewFilesystem(root)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := blob.Replace(context.Background(), store, shadowprice.DefaultKey, tableBytes(t, ','), blob.PutOptions{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var stdout, stderr bytes.Buffer
	if code := cli(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "MEAN_SHADOW_PRICE") {
		t.Fatalf("missing header: %q", stdout.String())
	}
}

func TestCLIListsStoredTables(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TRAVELCORE_BLOB_DRIVER", "fs")
	t.Setenv("TRAVELCORE_BLOB_FS_ROOT", root)
	store, err := blob.NewFilesystem(root)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	ctx := context.Background()
	if _, err := blob.Replace(ctx, store, shadowprice.DefaultKey, tableBytes(t, ','), blob.PutOptions{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	dir := filepath.Dir(filepath.Join(root, filepath.FromSlash(shadowprice.DefaultKey)))
	if err := os.WriteFile(filepath.Join(dir, "archive.csv"), []byte("node_id\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "KEY") {
		t.Fatalf("expected header and two tables, got %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), shadowprice.DefaultKey) || !strings.Contains(stdout.String(), "archive.csv") {
		t.Fatalf("listing misses a table: %q", stdout.String())
	}

	stdout.Reset()
	if code := cli([]string{"-list", "-format", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	var entries []struct {
		Key  string `json:"key"`
		Size int64  `json:"size"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil || len(entries) != 2 {
		t.Fatalf("decode listing: %v %q", err, stdout.String())
	}
}

func TestCLIFailures(t *testing.T) {
	malformed := writeFile(t, []byte("node_id\n1,2,3\n"))
	empty := writeFile(t, []byte("node_id\n"))
	cases := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{name: "malformed", args: []string{"-file", malformed}, code: 1, msg: "pnr.csv:2:"},
		{name: "empty", args: []string{"-file", empty}, code: 1, msg: "no nodes"},
		{name: "missing file", args: []string{"-file", filepath.Join(t.TempDir(), "none.csv")}, code: 1, msg: "read table"},
		{name: "bad delimiter", args: []string{"-file", empty, "-delimiter", ";;"}, code: 1, msg: "single character"},
		{name: "bad format", args: []string{"-format", "xml"}, code: 2, msg: "unknown format"},
		{name: "bad flag", args: []string{"-nope"}, code: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := cli(tc.args, &stdout, &stderr); code != tc.code {
				t.Fatalf("exit %d, want %d: %s", code, tc.code, stderr.String())
			}
			if !strings.Contains(stderr.String(), tc.msg) {
				t.Fatalf("stderr %q does not mention %q", stderr.String(), tc.msg)
			}
		})
	}
}

func TestMainUsesExitFunc(t *testing.T) {
	var codes []int
	old := exitFunc
	exitFunc = func(code int) { codes = append(codes, code) }
	defer func() { exitFunc = old }()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"shadowprice-check", "-file", writeFile(t, tableBytes(t, ','))}
	main()
	os.Args = []string{"shadowprice-check", "-file", writeFile(t, []byte("node_id\nx\n"))}
	main()
	if len(codes) != 2 || codes[0] != 0 || codes[1] != 1 {
		t.Fatalf("unexpected exit codes %v", codes)
	}
}
