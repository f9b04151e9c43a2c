// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package scanner

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz/lzma"
	"github.com/xi2/xz"
)

// re: multiple xz dependencies
// github.com/ulikunitz/xz is an xz implementation that provides an API for
// decompressing raw lzma/lzma2 streams.
// github.com/xi2/xz doesn't expose the lzma and lzma2 readers, but _is_ noticeably
// faster, so we use it for xz

var compressionExts = map[string]string{
	".xz":   "xz",
	".lzma": "lzma",
	".gz":   "gzip",
	".bz2":  "bzip2",
	".sz":   "snappy",
}

// Decompress returns an io.Reader of the decompressed contents of the given reader
// using the compression method specified by `algo`
func Decompress(algo string, compressedStream io.Reader) (io.Reader, error) {
	switch algo {
	case "xz":
		return xz.NewReader(compressedStream, xz.DefaultDictMax)
	case "lzma":
		log.Debug("SLOW PATH: lzma")
		return lzma.NewReader(compressedStream)
	case "lzma2":
		log.Debug("SLOW PATH: lzma2")
		return lzma.NewReader2(compressedStream)
	case "gz", "gzip":
		return gzip.NewReader(compressedStream)
	case "bz2", "bzip2":
		return bzip2.NewReader(compressedStream), nil
	case "sz", "snappy":
		return snappy.NewReader(compressedStream), nil
	default:
		return nil, errors.New("Unsupported compression: " + algo)
	}
}

// CompressionOf returns the compression implied by the extension of name, or
// "" when the name does not look compressed.
func CompressionOf(name string) string {
	return compressionExts[filepath.Ext(name)]
}

type decompressedFile struct {
	io.Reader
	io.Closer
}

// OpenDecompressed opens name and, when its extension names a supported
// compression, returns a reader over the decompressed contents.
func OpenDecompressed(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	algo := CompressionOf(name)
	if algo == "" {
		return f, nil
	}
	r, err := Decompress(algo, f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "%s: %s", name, algo)
	}
	return decompressedFile{Reader: r, Closer: f}, nil
}

// magic headers of the compressed formats Sniff recognizes
var compressionMagic = []struct {
	algo  string
	magic []byte
}{
	{"xz", []byte("\xfd7zXZ\x00")},
	{"gzip", []byte("\x1f\x8b")},
	{"bzip2", []byte("BZh")},
	// As per the snappy framing format, every stream starts with this chunk
	{"snappy", []byte("\xff\x06\x00\x00" + "sNaPpY")},
}

// Peek reads a chunk of the given length from the given reader and returns it
// as a slice as well as a *new* Reader that re-combines the header with the
// remainder of the input. The returned slice will be smaller than the requested
// length if the input was too short.
func Peek(input io.Reader, length int) ([]byte, io.Reader, error) {
	header := make([]byte, length)
	n, err := io.ReadFull(input, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, err
	}
	// resize our header slice down to the number of bytes actually read,
	// otherwise it will be padded with 0's out to the requested length.
	header = header[:n]
	return header, io.MultiReader(bytes.NewReader(header), input), nil
}

// Sniff peeks at the start of input to identify a supported compression
// format. Along with the name of the compression, or "" for unrecognized input,
// a new io.Reader is returned that re-combines the header with the body.
func Sniff(input io.Reader) (io.Reader, string, error) {
	longest := 0
	for _, m := range compressionMagic {
		if len(m.magic) > longest {
			longest = len(m.magic)
		}
	}
	header, input, err := Peek(input, longest)
	if err != nil {
		return nil, "", err
	}
	for _, m := range compressionMagic {
		if bytes.HasPrefix(header, m.magic) {
			return input, m.algo, nil
		}
	}
	return input, "", nil
}

// DecompressSniffed returns the decompressed contents of input when it starts
// with a recognized compression header, and input unchanged otherwise.
func DecompressSniffed(input io.Reader) (io.Reader, error) {
	input, algo, err := Sniff(input)
	if err != nil || algo == "" {
		return input, err
	}
	log.WithField("compression", algo).Debug("decompressing input")
	return Decompress(algo, input)
}
