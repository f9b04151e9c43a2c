// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package record

import (
	"strings"
	"testing"

	"github.com/IBM/sha1print/hash"
)

const abcHex = "a9993e364706816aba3e25717850c26c9cd0d89d"

func TestParseChecksumLine(t *testing.T) {
	abc := hash.SumString("abc")
	tests := []struct {
		name    string
		line    string
		want    Checksum
		wantErr bool
	}{
		{"text mode", abcHex + "  abc.txt", Checksum{abc, "abc.txt", false}, false},
		{"binary mode", abcHex + " *abc.bin", Checksum{abc, "abc.bin", true}, false},
		{"upper case", strings.ToUpper(abcHex) + "  x", Checksum{abc, "x", false}, false},
		{"path with spaces", abcHex + "  a b c", Checksum{abc, "a b c", false}, false},
		{"crlf", abcHex + "  dos.txt\r\n", Checksum{abc, "dos.txt", false}, false},
		{"tag format", "SHA1 (abc.txt) = " + abcHex, Checksum{abc, "abc.txt", false}, false},
		{"short digest", abcHex[:39] + "  x", Checksum{}, true},
		{"no path", abcHex + "  ", Checksum{}, true},
		{"garbage", "hello", Checksum{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChecksumLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChecksumLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseChecksumLine() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChecksumFormat(t *testing.T) {
	c := Checksum{Digest: hash.SumString("abc"), Path: "abc.txt"}
	if got, want := c.String(), abcHex+"  abc.txt"; got != want {
		t.Errorf("String() got = %v, want %v", got, want)
	}
	c.Binary = true
	if got, want := c.Format(hash.Upper), strings.ToUpper(abcHex)+" *abc.txt"; got != want {
		t.Errorf("Format(Upper) got = %v, want %v", got, want)
	}
	back, err := ParseChecksumLine(c.Format(hash.Upper))
	if err != nil || back != c {
		t.Errorf("ParseChecksumLine(Format()) got = %v, %v, want %v", back, err, c)
	}
}

func TestReadChecksums(t *testing.T) {
	input := "# generated\n\n" + abcHex + "  one\n" + abcHex + " *two\n"
	sums, err := ReadChecksums(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 || sums[0].Path != "one" || sums[1].Path != "two" || !sums[1].Binary {
		t.Errorf("ReadChecksums() got = %v", sums)
	}

	_, err = ReadChecksums(strings.NewReader(abcHex + "  ok\nbroken\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadChecksums() error got = %v, want line 2", err)
	}
}

func TestFile(t *testing.T) {
	f := File{Path: "abc.txt", SHA1: hash.SumString("abc")}
	if got, want := f.String(), abcHex+"  abc.txt"; got != want {
		t.Errorf("String() got = %v, want %v", got, want)
	}
	if !f.Is(hash.SumString("abc")) {
		t.Error("Is(digest) got = false, want true")
	}
	if f.Is(File{Path: "other", SHA1: f.SHA1}) {
		t.Error("Is(other path) got = true, want false")
	}
	if !f.Is(&File{Path: "abc.txt", SHA1: f.SHA1}) {
		t.Error("Is(*File) got = false, want true")
	}
	if got, want := f.SRI(), f.SHA1.SRI(); got != want {
		t.Errorf("SRI() got = %v, want %v", got, want)
	}
}
