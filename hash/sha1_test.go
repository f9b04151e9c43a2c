// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package hash

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"
)

var knownVectors = []struct {
	input string
	want  string
}{
	{"", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
	{"abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
	{"abcdefg", "2fb5e13419fc89246865e7a324f476ec624e8740"},
	{"1234567890", "01b307acba4f54f55aafc33bb06bbbf6ca803e9a"},
	{"The quick brown fox jumps over the lazy dog", "2fd4e1c67a2d28fced849ee1bb76e7391b93eb12"},
	{"abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq", "84983e441c3bd26ebaae4aa1f95129e5e54670f1"},
	{
		"abcdefghbcdefghicdefghijdefghijkefghijklfghijklmghijklmnhijklmnoijklmnopjklmnopqklmnopqrlmnopqrsmnopqrstnopqrstu",
		"a49b2446a02c645bf419f995b67091253a04a259",
	},
}

func TestSum(t *testing.T) {
	for _, tt := range knownVectors {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			if got := Sum([]byte(tt.input)).String(); got != tt.want {
				t.Errorf("Sum() got = %v, want %v", got, tt.want)
			}
			if got := SumString(tt.input).String(); got != tt.want {
				t.Errorf("SumString() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSumMillionA(t *testing.T) {
	input := bytes.Repeat([]byte("a"), 1000000)
	want := "34aa973cd4c4daa4f61eeb2bdbad27316534016f"
	if got := Sum(input).String(); got != want {
		t.Errorf("Sum(1M 'a's) got = %v, want %v", got, want)
	}
	got, err := SumStream(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != want {
		t.Errorf("SumStream(1M 'a's) got = %v, want %v", got, want)
	}
}

type label string
type payload []byte

func TestSumOf(t *testing.T) {
	want := SumString("abc")
	if got := SumOf(label("abc")); got != want {
		t.Errorf("SumOf(label) got = %v, want %v", got, want)
	}
	if got := SumOf(payload("abc")); got != want {
		t.Errorf("SumOf(payload) got = %v, want %v", got, want)
	}
	if got := SumOf([]byte("abc")); got != want {
		t.Errorf("SumOf([]byte) got = %v, want %v", got, want)
	}
}

func TestSumDeterministic(t *testing.T) {
	buf := make([]byte, 777)
	rand.Read(buf)
	first := Sum(buf)
	second := Sum(buf)
	if first != second {
		t.Errorf("Sum() is not deterministic: %v != %v", first, second)
	}
}

func TestSumDoesNotModifyInput(t *testing.T) {
	buf := []byte(strings.Repeat("x", 130))
	orig := append([]byte(nil), buf...)
	Sum(buf)
	if !bytes.Equal(buf, orig) {
		t.Error("Sum() modified its input")
	}
}

// Every input path must agree with each other and with crypto/sha1 for every
// length around the block and padding boundaries.
func TestAllPathsAgree(t *testing.T) {
	buf := make([]byte, 300)
	rand.Read(buf)
	for n := 0; n <= len(buf); n++ {
		data := buf[:n]
		want := Digest(sha1.Sum(data))

		if got := Sum(data); got != want {
			t.Fatalf("Sum(%d bytes) got = %v, want %v", n, got, want)
		}

		got, err := SumStream(bytes.NewReader(data), int64(n))
		if err != nil {
			t.Fatalf("SumStream(%d bytes) error: %v", n, err)
		}
		if got != want {
			t.Fatalf("SumStream(%d bytes) got = %v, want %v", n, got, want)
		}

		h := New()
		// uneven writes exercise the partial block buffer
		for rest := data; len(rest) > 0; {
			k := 1 + rand.Intn(70)
			if k > len(rest) {
				k = len(rest)
			}
			h.Write(rest[:k])
			rest = rest[k:]
		}
		if got := NewDigest(h); got != want {
			t.Fatalf("New() over %d bytes got = %v, want %v", n, got, want)
		}

		ah := NewSHA1Hasher()
		if _, err := io.Copy(ah, bytes.NewReader(data)); err != nil {
			t.Fatal(err)
		}
		ah.Close()
		if got := ah.Digest(); got != want {
			t.Fatalf("NewSHA1Hasher() over %d bytes got = %v, want %v", n, got, want)
		}
	}
}

func TestWriterSumKeepsState(t *testing.T) {
	h := New()
	h.Write([]byte("ab"))
	h.Sum(nil)
	h.Write([]byte("c"))
	if got, want := NewDigest(h), SumString("abc"); got != want {
		t.Errorf("Sum() disturbed running state: got = %v, want %v", got, want)
	}
	h.Reset()
	if got, want := NewDigest(h), SumString(""); got != want {
		t.Errorf("Reset() got = %v, want %v", got, want)
	}
	if h.Size() != Size || h.BlockSize() != BlockSize {
		t.Errorf("Size(), BlockSize() got = %d, %d, want %d, %d", h.Size(), h.BlockSize(), Size, BlockSize)
	}
}
