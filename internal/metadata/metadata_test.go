package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/newspaper-importer/internal/page"
)

func testPage(t *testing.T) page.Descriptor {
	t.Helper()
	return page.Parse("1925-03-01_003.tif", "", "")
}

func TestResolve(t *testing.T) {
	d := testPage(t)

	t.Run("literal without variable", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "Liechtensteiner Volksblatt"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "Liechtensteiner Volksblatt", got)
	})

	t.Run("variable substituted", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "CurrentNo", Value: "_year_", Variable: "year"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "1925", got)
	})

	t.Run("every occurrence replaced", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "_year_/_year_", Variable: "year"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "1925/1925", got)
	})

	t.Run("unconfigured marker left intact", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "_year_/_page_", Variable: "year"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "1925/_page_", got)
	})

	t.Run("configured variable absent from template is a no-op", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "plain title", Variable: "year"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "plain title", got)
	})

	t.Run("all variables", func(t *testing.T) {
		cases := map[string]string{
			"year":     "1925",
			"month":    "03",
			"day":      "01",
			"date":     "1925-03-01",
			"datefine": "01. Mar 1925",
			"page":     "003",
		}
		for variable, want := range cases {
			got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "_" + variable + "_", Variable: variable}, d)
			assert.NoError(t, err, variable)
			assert.Equal(t, want, got, variable)
		}
	})

	t.Run("unknown variable is an error", func(t *testing.T) {
		_, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "_volume_", Variable: "volume"}, d)
		assert.ErrorContains(t, err, "unknown template variable")
	})

	t.Run("unknown variable absent from template is still a no-op", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "plain", Variable: "volume"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "plain", got)
	})

	t.Run("variable name is case insensitive", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "_Year_", Variable: "Year"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "1925", got)
	})

	t.Run("catalog identifiers lose spaces", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "CatalogIDDigital", Value: "vb _year_ anchor", Variable: "year"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "vb1925anchor", got)

		got, err = Resolve(FieldSpec{Type: "CatalogIDSource", Value: "id 42"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "id42", got)
	})

	t.Run("other fields keep spaces", func(t *testing.T) {
		got, err := Resolve(FieldSpec{Type: "TitleDocMain", Value: "Volksblatt _year_", Variable: "year"}, d)
		assert.NoError(t, err)
		assert.Equal(t, "Volksblatt 1925", got)
	})
}

func TestFieldSpec_AppliesTo(t *testing.T) {
	spec := FieldSpec{Type: "TitleDocMain", Levels: []Level{LevelAnchor, LevelVolume}}

	assert.True(t, spec.AppliesTo(LevelAnchor))
	assert.True(t, spec.AppliesTo(LevelVolume))
	assert.False(t, spec.AppliesTo(LevelIssue))
}

func TestSplitPersonName(t *testing.T) {
	t.Run("splits on first space", func(t *testing.T) {
		first, last, err := SplitPersonName("Eduard von Falz-Fein")
		assert.NoError(t, err)
		assert.Equal(t, "Eduard", first)
		assert.Equal(t, "von Falz-Fein", last)
	})

	t.Run("no space is an error", func(t *testing.T) {
		_, _, err := SplitPersonName("Mononym")
		assert.Error(t, err)
	})
}
