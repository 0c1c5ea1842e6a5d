// Command shadowprice-check decodes a park-and-ride shadow-price table and
// prints one summary line per node. It reads either a local file or the
// table key from the configured blob store, and exits non-zero when the
// table is malformed. With -list it prints the tables stored next to the
// configured key instead.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"travelcore/internal/blob"
	"travelcore/internal/config"
	"travelcore/internal/shadowprice"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

type options struct {
	file       string
	configPath string
	delimiter  string
	format     string
	list       bool
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("shadowprice-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.file, "file", "", "path to a table file; when empty the table is read from the configured blob store")
	fs.StringVar(&opts.configPath, "config", "", "settings file used to locate the blob store")
	fs.StringVar(&opts.delimiter, "delimiter", "", "field separator; defaults to the configured one")
	fs.StringVar(&opts.format, "format", "text", "output format: text or json")
	fs.BoolVar(&opts.list, "list", false, "list tables stored under the configured key's prefix")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.format != "text" && opts.format != "json" {
		fmt.Fprintf(stderr, "unknown format %q\n", opts.format)
		return 2
	}
	if opts.list {
		infos, err := listTables(context.Background(), opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Shadow price check failed: %v\n", err)
			return 1
		}
		if err := renderList(stdout, opts.format, infos); err != nil {
			fmt.Fprintf(stderr, "write output: %v\n", err)
			return 1
		}
		return 0
	}
	reports, err := run(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(stderr, "Shadow price check failed: %v\n", err)
		return 1
	}
	if err := render(stdout, opts.format, reports); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, opts options) ([]shadowprice.NodeReport, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	delim := settings.Delimiter()
	if opts.delimiter != "" {
		if utf8.RuneCountInString(opts.delimiter) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", opts.delimiter)
		}
		delim, _ = utf8.DecodeRuneInString(opts.delimiter)
	}

	data, location, err := readTable(ctx, settings, opts.file)
	if err != nil {
		return nil, err
	}
	table, err := shadowprice.Decode(bytes.NewReader(data), location, delim)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, errors.New(location + ": table has no nodes")
	}
	reports := make([]shadowprice.NodeReport, 0, len(table))
	for _, id := range table.NodeIDs() {
		reports = append(reports, shadowprice.Summarize(table[id].Node()))
	}
	return reports, nil
}

func readTable(ctx context.Context, settings *config.Settings, file string) ([]byte, string, error) {
	if file != "" {
		data, err := os.ReadFile(file) // #nosec G304: operator supplied path
		if err != nil {
			return nil, "", fmt.Errorf("read table: %w", err)
		}
		return data, file, nil
	}
	store, err := blob.Open(ctx, settings.BlobOptions())
	if err != nil {
		return nil, "", fmt.Errorf("open blob store: %w", err)
	}
	key := settings.ShadowPrice.Key
	data, err := blob.ReadAll(ctx, store, key)
	if err != nil {
		return nil, "", fmt.Errorf("read table %s: %w", key, err)
	}
	return data, string(store.Driver()) + ":" + key, nil
}

// listTables returns the blobs sharing the configured key's directory.
func listTables(ctx context.Context, configPath string) ([]blob.Info, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	store, err := blob.Open(ctx, settings.BlobOptions())
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	prefix := ""
	if dir := path.Dir(settings.ShadowPrice.Key); dir != "." {
		prefix = dir + "/"
	}
	infos, err := store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	return infos, nil
}

func renderList(w io.Writer, format string, infos []blob.Info) error {
	if format == "json" {
		type entry struct {
			Key          string    `json:"key"`
			Size         int64     `json:"size"`
			LastModified time.Time `json:"last_modified"`
		}
		out := make([]entry, 0, len(infos))
		for _, info := range infos {
			out = append(out, entry{Key: info.Key, Size: info.Size, LastModified: info.LastModified})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tLAST_MODIFIED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Key, info.Size, info.LastModified.Format(time.RFC3339))
	}
	return tw.Flush()
}

func render(w io.Writer, format string, reports []shadowprice.NodeReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tPEAK_DEMAND\tMAX_ABS_DIFFERENCE\tMEAN_SHADOW_PRICE")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%g\t%g\t%g\n", r.NodeID, r.PeakDemand, r.MaxAbsDifference, r.MeanShadowPrice)
	}
	return tw.Flush()
}
