package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	infraS3 "travelcore/internal/infra/blob/s3"
)

// Options selects and configures a Store.
type Options struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// OptionsFromEnv reads driver selection from the environment.
//
//	TRAVELCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	TRAVELCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 variables are documented in internal/infra/blob/s3)
func OptionsFromEnv() Options {
	driver := Driver(os.Getenv("TRAVELCORE_BLOB_DRIVER"))
	if driver == "" {
		driver = DriverFilesystem
	}
	return Options{
		Driver: driver,
		FSRoot: os.Getenv("TRAVELCORE_BLOB_FS_ROOT"),
		S3:     infraS3.ConfigFromEnv(),
	}
}

// Open builds the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(opts.FSRoot)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", opts.Driver)
	}
}

// ReadAll fetches the whole blob at key.
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// Replace stores data at key, removing any previous blob first.
func Replace(ctx context.Context, store Store, key string, data []byte, opts PutOptions) (Info, error) {
	if _, err := store.Delete(ctx, key); err != nil {
		return Info{}, fmt.Errorf("replace %s: %w", key, err)
	}
	return store.Put(ctx, key, bytes.NewReader(data), opts)
}

// Exists reports whether key is present.
func Exists(ctx context.Context, store Store, key string) (bool, error) {
	if _, err := store.Head(ctx, key); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
