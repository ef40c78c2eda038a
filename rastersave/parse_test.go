package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestGsparse(t *testing.T) {
	data := map[string][2]string{
		"gs://":             {"", ""},
		"gs://bucket":       {"", ""},
		"gs://bucket/":      {"", ""},
		"gs://bucket/obj":   {"bucket", "obj"},
		"gs://bucket/obj/":  {"bucket", "obj"},
		"gs://bucket/a/b":   {"bucket", "a/b"},
		"/local/path":       {"", ""},
		"relative/path.tif": {"", ""},
	}
	for in, expected := range data {
		b, o := gsparse(in)
		if b != expected[0] || o != expected[1] {
			t.Errorf("%s: got (%s,%s) expected (%s,%s)", in, b, o, expected[0], expected[1])
		}
	}
}

func TestParseTile(t *testing.T) {
	tc, err := parseTile("4/11/5")
	if err != nil {
		t.Fatal(err)
	}
	if tc.Zoom != 4 || tc.Col != 11 || tc.Row != 5 {
		t.Errorf("got %+v", tc)
	}
	for _, bad := range []string{"", "4/11", "4/11/5/6", "a/1/2", "1/b/2", "1/2/c"} {
		if _, err := parseTile(bad); err == nil {
			t.Errorf("%q: error not raised", bad)
		}
	}
}

func TestParseBounds(t *testing.T) {
	b, err := parseBounds("-10, -5, 10.5, 5.5")
	if err != nil {
		t.Fatal(err)
	}
	if b.MinX() != -10 || b.MinY() != -5 || b.MaxX() != 10.5 || b.MaxY() != 5.5 {
		t.Errorf("got %+v", b)
	}
	for _, bad := range []string{"", "1,2,3", "1,2,3,x"} {
		if _, err := parseBounds(bad); err == nil {
			t.Errorf("%q: error not raised", bad)
		}
	}
}

func TestSaveCogRejectsNonTiff(t *testing.T) {
	var out bytes.Buffer
	err := saveCog(&out, func(w io.Writer) error {
		_, werr := w.Write([]byte("GORAST01 not a tiff"))
		return werr
	})
	if err == nil {
		t.Fatal("error not raised")
	}
	if !strings.Contains(err.Error(), "tiff") {
		t.Errorf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("output written despite rejection")
	}
}

func TestIsTiffMagic(t *testing.T) {
	valid := [][4]byte{
		{'I', 'I', 42, 0},
		{'M', 'M', 0, 42},
		{'I', 'I', 43, 0},
		{'M', 'M', 0, 43},
	}
	for _, m := range valid {
		if !isTiffMagic(m) {
			t.Errorf("%v: not recognized", m)
		}
	}
	invalid := [][4]byte{
		{'G', 'O', 'R', 'A'},
		{'I', 'I', 0, 42},
		{'M', 'M', 42, 0},
		{0, 0, 0, 0},
	}
	for _, m := range invalid {
		if isTiffMagic(m) {
			t.Errorf("%v: wrongly recognized", m)
		}
	}
}
