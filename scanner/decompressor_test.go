// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/golang/snappy"
	uxz "github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

type compressor func(io.Writer) (io.WriteCloser, error)

var compressors = map[string]compressor{
	"gzip": func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
	"snappy": func(w io.Writer) (io.WriteCloser, error) {
		return snappy.NewBufferedWriter(w), nil
	},
	"xz":   func(w io.Writer) (io.WriteCloser, error) { return uxz.NewWriter(w) },
	"lzma": func(w io.Writer) (io.WriteCloser, error) { return lzma.NewWriter(w) },
}

func compress(t *testing.T, algo string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := compressors[algo](&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	data := randomBytes(4096)
	for algo := range compressors {
		t.Run(algo, func(t *testing.T) {
			r, err := Decompress(algo, bytes.NewReader(compress(t, algo, data)))
			if err != nil {
				t.Fatal(err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("Decompress(%s) returned %d different bytes", algo, len(got))
			}
		})
	}
	if _, err := Decompress("zstd", bytes.NewReader(nil)); err == nil {
		t.Error("Decompress(zstd) error got = nil")
	}
}

func TestOpenDecompressed(t *testing.T) {
	dir := t.TempDir()
	data := []byte(abcLine)
	tests := []struct {
		name string
		body []byte
	}{
		{"SHA1SUMS", data},
		{"SHA1SUMS.gz", compress(t, "gzip", data)},
		{"SHA1SUMS.xz", compress(t, "xz", data)},
		{"SHA1SUMS.sz", compress(t, "snappy", data)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := OpenDecompressed(writeFile(t, dir, tt.name, tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer rc.Close()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != abcLine {
				t.Errorf("OpenDecompressed() got = %q, want %q", got, abcLine)
			}
		})
	}
	if got := CompressionOf("x.tar.bz2"); got != "bzip2" {
		t.Errorf("CompressionOf() got = %v, want bzip2", got)
	}
}

func TestDecompressSniffed(t *testing.T) {
	data := randomBytes(1000)
	for _, algo := range []string{"gzip", "xz", "snappy", ""} {
		t.Run(algo, func(t *testing.T) {
			body := data
			if algo != "" {
				body = compress(t, algo, data)
			}
			r, err := DecompressSniffed(bytes.NewReader(body))
			if err != nil {
				t.Fatal(err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("DecompressSniffed(%q) returned %d different bytes", algo, len(got))
			}
		})
	}

	// shorter than any magic header
	r, err := DecompressSniffed(bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := io.ReadAll(r); string(got) != "x" {
		t.Errorf("DecompressSniffed() short input got = %q", got)
	}
}

const abcLine = "a9993e364706816aba3e25717850c26c9cd0d89d  abc\n"
