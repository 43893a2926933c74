package page

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_BasicFileName(t *testing.T) {
	d := Parse("/import/1925-03-01_001.tif", "", "")

	if d.FileName != "1925-03-01_001.tif" {
		t.Errorf("unexpected file name: %s", d.FileName)
	}
	if d.Date != "1925-03-01" {
		t.Errorf("expected date 1925-03-01, got '%s'", d.Date)
	}
	if d.Year != "1925" || d.Month != "03" || d.Day != "01" {
		t.Errorf("unexpected date parts: %s/%s/%s", d.Year, d.Month, d.Day)
	}
	if d.PageNumber != "001" {
		t.Errorf("expected page number 001, got '%s'", d.PageNumber)
	}
	if d.Edition != EditionRegular {
		t.Errorf("expected regular edition, got %s", d.Edition)
	}
}

func TestParse_SeparatorVariants(t *testing.T) {
	cases := map[string]string{
		"1925-03-01_001.tif":     "1925-03-01",
		"1925_03_01_001.tif":     "1925-03-01",
		"1925.03.01_001.tif":     "1925-03-01",
		"vb_1925 03 01_002.tif":  "1925-03-01",
		"scan__1925--03--01.tif": "1925-03-01",
	}

	for name, want := range cases {
		d := Parse(name, "", "")
		if d.Date != want {
			t.Errorf("%s: expected date %s, got '%s'", name, want, d.Date)
		}
	}
}

func TestParse_NoDate(t *testing.T) {
	d := Parse("notes_001.tif", "", "")

	if d.Date != "" {
		t.Errorf("expected empty date, got '%s'", d.Date)
	}
	if d.Year != "" || d.Month != "" || d.Day != "" {
		t.Errorf("expected empty date parts, got %s/%s/%s", d.Year, d.Month, d.Day)
	}
	// Page number extraction is independent of the date.
	if d.PageNumber != "001" {
		t.Errorf("expected page number 001, got '%s'", d.PageNumber)
	}
}

func TestParse_PageNumberRule(t *testing.T) {
	cases := map[string]string{
		"1925-03-01_001.tif":       "001",
		"vb_1925-03-01_abend_012.tif": "012",
		"1925-03-01.tif":           "1925-03-01", // no underscore: whole stem, invalid downstream
		"1925-03-01_007":           "007",        // no extension
	}

	for name, want := range cases {
		d := Parse(name, "", "")
		if d.PageNumber != want {
			t.Errorf("%s: expected page number '%s', got '%s'", name, want, d.PageNumber)
		}
	}
}

func TestParse_EditionMarkers(t *testing.T) {
	morning := Parse("1925-03-01_morgen_001.tif", "morgen", "abend")
	if morning.Edition != EditionMorning {
		t.Errorf("expected morning edition, got %s", morning.Edition)
	}

	evening := Parse("1925-03-01_abend_001.tif", "morgen", "abend")
	if evening.Edition != EditionEvening {
		t.Errorf("expected evening edition, got %s", evening.Edition)
	}

	regular := Parse("1925-03-01_001.tif", "morgen", "abend")
	if regular.Edition != EditionRegular {
		t.Errorf("expected regular edition, got %s", regular.Edition)
	}

	// Blank markers never match.
	blank := Parse("1925-03-01_001.tif", "", "")
	if blank.Edition != EditionRegular {
		t.Errorf("expected regular edition with blank markers, got %s", blank.Edition)
	}
}

func TestDescriptor_IssueKey(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{"1925-03-01_morgen_001.tif", "1925-03-01_0"},
		{"1925-03-01_001.tif", "1925-03-01_1"},
		{"1925-03-01_abend_001.tif", "1925-03-01_2"},
	}

	for _, c := range cases {
		d := Parse(c.file, "morgen", "abend")
		if got := d.IssueKey(); got != c.want {
			t.Errorf("%s: expected issue key %s, got %s", c.file, c.want, got)
		}
	}
}

func TestDescriptor_DateFormats(t *testing.T) {
	d := Parse("1925-03-01_001.tif", "", "")

	if got := d.DateFine(); got != "01. Mar 1925" {
		t.Errorf("unexpected fine date: %s", got)
	}
	if got := d.DateEuropean(); got != "01.03.1925" {
		t.Errorf("unexpected european date: %s", got)
	}

	empty := Parse("pages_001.tif", "", "")
	if got := empty.DateFine(); got != "" {
		t.Errorf("expected empty fine date, got '%s'", got)
	}
}

func TestDescriptor_IssueTitle(t *testing.T) {
	d := Parse("1925-03-01_001.tif", "", "")

	if got := d.IssueTitle("de", "Volksblatt "); got != "Volksblatt Sonntag, 1. März 1925" {
		t.Errorf("unexpected german title: %s", got)
	}
	if got := d.IssueTitle("en", "Gazette"); got != "Gazette Sunday, March 1, 1925" {
		t.Errorf("unexpected english title: %s", got)
	}
}

func TestDescriptor_PageNumberStripped(t *testing.T) {
	d := Parse("1925-03-01_003.tif", "", "")
	if got := d.PageNumberStripped(); got != "3" {
		t.Errorf("expected '3', got '%s'", got)
	}

	d = Parse("1925-03-01_010.tif", "", "")
	if got := d.PageNumberStripped(); got != "10" {
		t.Errorf("expected '10', got '%s'", got)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "1925-03-01_001.tif")
	if err := os.WriteFile(good, []byte("image data"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	empty := filepath.Join(dir, "1925-03-02_002.tif")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("valid file", func(t *testing.T) {
		r := Validate(Parse(good, "", ""))
		if !r.DateValid || !r.PageNumberValid || !r.FileSizeValid {
			t.Errorf("expected all checks to pass, got %+v", r)
		}
		if !r.OK() {
			t.Error("expected OK")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		r := Validate(Parse(empty, "", ""))
		if r.FileSizeValid {
			t.Error("expected file size check to fail for empty file")
		}
		if r.OK() {
			t.Error("expected not OK")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		r := Validate(Parse(filepath.Join(dir, "1925-03-03_003.tif"), "", ""))
		if r.FileSizeValid {
			t.Error("expected file size check to fail for missing file")
		}
	})

	t.Run("bad page number", func(t *testing.T) {
		bad := filepath.Join(dir, "1925-03-01_x01.tif")
		if err := os.WriteFile(bad, []byte("x"), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := Validate(Parse(bad, "", ""))
		if r.PageNumberValid {
			t.Error("expected page number check to fail")
		}
		if !r.DateValid || !r.FileSizeValid {
			t.Errorf("other checks should pass, got %+v", r)
		}
	})

	t.Run("no date", func(t *testing.T) {
		undated := filepath.Join(dir, "scan_004.tif")
		if err := os.WriteFile(undated, []byte("x"), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := Validate(Parse(undated, "", ""))
		if r.DateValid {
			t.Error("expected date check to fail")
		}
	})
}
