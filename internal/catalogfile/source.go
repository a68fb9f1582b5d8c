package catalogfile

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Read decodes a catalog from r. Gzip-compressed input is detected by its
// magic header and decompressed transparently.
func Read(r io.Reader) ([]product.Product, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "peek catalog header")
	}

	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "create gzip reader")
		}
		defer func() { _ = gz.Close() }()
		src = gz
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return Decode(data)
}

var (
	_ product.Source = File("")
	_ product.Source = Bytes(nil)
)

// File is a catalog source backed by a JSON or gzip JSON file.
type File string

// Load reads and decodes the file.
func (f File) Load(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(string(f))
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", string(f))
	}
	defer func() { _ = fh.Close() }()

	products, err := Read(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", string(f))
	}
	return products, nil
}

// Bytes is a catalog source backed by an in-memory document, typically the
// embedded seed catalog.
type Bytes []byte

// Load decodes the document.
func (b Bytes) Load(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(b))
}
