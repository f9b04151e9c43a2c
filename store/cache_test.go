// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IBM/sha1print/hash"
	"github.com/IBM/sha1print/record"
)

func newFile(path, content string) *record.File {
	return &record.File{Path: path, Size: int64(len(content)), SHA1: hash.SumString(content)}
}

func populated(t *testing.T, path string) *digestInMemoryCache {
	t.Helper()
	c := newInMemoryCache(path)
	c.PutFile(newFile("a.txt", "alpha"))
	c.PutFile(newFile("b.txt", "beta"))
	c.PutFile(newFile("copy-of-a.txt", "alpha"))
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPutFile(t *testing.T) {
	c := populated(t, "")
	if got := len(c.Files()); got != 3 {
		t.Fatalf("Files() got = %d, want 3", got)
	}

	again := newFile("a.txt", "alpha")
	stored := c.PutFile(again)
	if stored == again || stored.CacheID() != 0 {
		t.Errorf("PutFile() of known path got = %v (id %d), want existing record 0", stored, stored.CacheID())
	}
	if got := len(c.FindFiles(hash.SumString("alpha"))); got != 2 {
		t.Errorf("FindFiles() after re-putting a known file got = %d, want 2", got)
	}
	if got := c.PutFile(stored); got != stored {
		t.Error("PutFile() of a cached record did not return it unchanged")
	}

	changed := c.PutFile(newFile("b.txt", "beta, edited"))
	if changed.SHA1 != hash.SumString("beta, edited") {
		t.Errorf("PutFile() did not update digest, got = %v", changed.SHA1)
	}
	if c.Known(hash.SumString("beta")) {
		t.Error("Known() still reports the replaced digest")
	}
	if err := c.Verify(); err != nil {
		t.Error(err)
	}
}

func TestFindFiles(t *testing.T) {
	c := populated(t, "")
	tests := []struct {
		content string
		want    []string
	}{
		{"alpha", []string{"a.txt", "copy-of-a.txt"}},
		{"beta", []string{"b.txt"}},
		{"gamma", nil},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			d := hash.SumString(tt.content)
			found := c.FindFiles(d)
			var got []string
			for _, f := range found {
				got = append(got, f.Path)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("FindFiles() got = %v, want %v", got, tt.want)
			}
			if c.Known(d) != (len(tt.want) > 0) {
				t.Errorf("Known() got = %v, want %v", c.Known(d), len(tt.want) > 0)
			}
		})
	}

	m, err := hash.NewDigestMatcher(hash.SumString("beta").Hex(hash.Lower)[:6])
	if err != nil {
		t.Fatal(err)
	}
	matched := c.FindMatching(func(f *record.File) bool { return m.Match(f.SHA1) })
	if len(matched) != 1 || matched[0].Path != "b.txt" {
		t.Errorf("FindMatching() got = %v", matched)
	}
}

func TestStatDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("stat me"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	c := newInMemoryCache("")
	if _, ok := c.GetStatDigest(info); ok {
		t.Error("GetStatDigest() hit on an empty cache")
	}
	want := hash.SumString("stat me")
	c.PutStatDigest(info, want)
	if got, ok := c.GetStatDigest(info); !ok || got != want {
		t.Errorf("GetStatDigest() got = %v, %v, want %v, true", got, ok, want)
	}

	if err := os.WriteFile(path, []byte("stat me again"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.GetStatDigest(changed); ok {
		t.Error("GetStatDigest() hit after the file changed size")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := populated(t, "")
	var buf bytes.Buffer
	if err := c.SaveSnapshot(&buf); err != nil {
		t.Fatal(err)
	}

	back := newInMemoryCache("")
	if err := back.LoadSnapshot(&buf); err != nil {
		t.Fatal(err)
	}
	if err := back.Verify(); err != nil {
		t.Fatal(err)
	}
	assertSameFiles(t, c, back)

	if err := back.LoadSnapshot(strings.NewReader("not snappy")); err == nil {
		t.Error("LoadSnapshot() accepted garbage")
	}
}

func TestOpenAndPersist(t *testing.T) {
	for _, name := range []string{"cache.yaml", "cache" + SnapshotExt} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			st, err := Open(path)
			if err != nil {
				t.Fatalf("Open() of missing file error = %v", err)
			}
			if got := len(st.Files()); got != 0 {
				t.Fatalf("Files() got = %d, want 0", got)
			}
			st.PutFile(newFile("a.txt", "alpha"))
			st.PutFile(newFile("b.txt", "beta"))
			if err := st.PersistRememberedObjects(); err != nil {
				t.Fatal(err)
			}

			restored, err := Open(path)
			if err != nil {
				t.Fatal(err)
			}
			assertSameFiles(t, st.(*digestInMemoryCache), restored.(*digestInMemoryCache))
			if !restored.Known(hash.SumString("alpha")) {
				t.Error("Known() got = false after restore")
			}
		})
	}
}

func TestOpenYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yaml")
	c := populated(t, path)
	if err := c.PersistRememberedObjects(); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte(hash.SumString("alpha").Hex(hash.Lower))) {
		t.Errorf("persisted yaml does not contain hex digests:\n%s", raw)
	}

	if err := os.WriteFile(path, []byte("files:\n- id: 5\n  path: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open() accepted a file with a dangling id")
	}
}

func TestInMemoryStoreIsNotPersisted(t *testing.T) {
	st := NewInMemoryStore()
	st.PutFile(newFile("x", "x"))
	if err := st.PersistRememberedObjects(); err != nil {
		t.Errorf("PersistRememberedObjects() error = %v", err)
	}
}

func assertSameFiles(t *testing.T, want, got *digestInMemoryCache) {
	t.Helper()
	wf, gf := want.Files(), got.Files()
	if len(wf) != len(gf) {
		t.Fatalf("Files() got = %d files, want %d", len(gf), len(wf))
	}
	for i := range wf {
		if !wf[i].Is(gf[i]) || wf[i].Size != gf[i].Size {
			t.Errorf("Files()[%d] got = %v, want %v", i, gf[i], wf[i])
		}
	}
}
