package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuleset(t *testing.T) *Ruleset {
	t.Helper()
	r, err := LoadRuleset(writeTestRuleset(t))
	require.NoError(t, err)
	return r
}

// buildSkeleton creates anchor, volume and bound book the way the
// assembler does for a fresh year.
func buildSkeleton(t *testing.T, r *Ruleset) (*Document, NodeID, NodeID) {
	t.Helper()
	d := New()

	anchor, err := d.CreateLogicalRoot(r, "Newspaper")
	require.NoError(t, err)
	volume, err := d.AddLogicalChild(r, anchor, "NewspaperVolume")
	require.NoError(t, err)
	book, err := d.CreatePhysicalRoot(r, "BoundBook")
	require.NoError(t, err)

	return d, volume, book
}

func TestDocument_Skeleton(t *testing.T) {
	r := testRuleset(t)
	d, volume, book := buildSkeleton(t, r)

	assert.Equal(t, "Newspaper", d.NodeType(d.LogicalRoot))
	assert.Equal(t, "BoundBook", d.NodeType(book))

	got, err := d.Volume()
	require.NoError(t, err)
	assert.Equal(t, volume, got)
	assert.Equal(t, 0, d.PhysicalPageCount())
}

func TestDocument_SchemaRejections(t *testing.T) {
	r := testRuleset(t)
	d, volume, book := buildSkeleton(t, r)

	t.Run("disallowed child", func(t *testing.T) {
		_, err := d.AddLogicalChild(r, d.LogicalRoot, "NewspaperIssue")
		assert.ErrorContains(t, err, "not allowed as child")
	})

	t.Run("disallowed metadata", func(t *testing.T) {
		err := d.AddMetadata(r, book, "TitleDocMain", "x")
		assert.ErrorContains(t, err, "not allowed")
	})

	t.Run("allowed metadata", func(t *testing.T) {
		require.NoError(t, d.AddMetadata(r, volume, "TitleDocMain", "Volksblatt 1925"))
		v, ok := d.FindMetadata(volume, "TitleDocMain")
		assert.True(t, ok)
		assert.Equal(t, "Volksblatt 1925", v)
	})

	t.Run("unknown node", func(t *testing.T) {
		err := d.AddMetadata(r, NodeID(99), "TitleDocMain", "x")
		assert.Error(t, err)
	})

	t.Run("duplicate roots rejected", func(t *testing.T) {
		_, err := d.CreateLogicalRoot(r, "Newspaper")
		assert.Error(t, err)
		_, err = d.CreatePhysicalRoot(r, "BoundBook")
		assert.Error(t, err)
	})
}

func TestDocument_PagesAndReferences(t *testing.T) {
	r := testRuleset(t)
	d, volume, book := buildSkeleton(t, r)

	issue, err := d.AddLogicalChild(r, volume, "NewspaperIssue")
	require.NoError(t, err)

	var pages []NodeID
	for i := 0; i < 3; i++ {
		p, err := d.AddPhysicalChild(r, book, "page")
		require.NoError(t, err)
		require.NoError(t, d.AddReference(volume, p))
		require.NoError(t, d.AddReference(issue, p))
		pages = append(pages, p)
	}

	assert.Equal(t, 3, d.PhysicalPageCount())
	assert.Equal(t, pages, d.PhysicalChildren(book))
	assert.Equal(t, pages, d.ReferencesFrom(issue))
	assert.NoError(t, d.CheckReferences())

	t.Run("missing issue reference detected", func(t *testing.T) {
		p, err := d.AddPhysicalChild(r, book, "page")
		require.NoError(t, err)
		require.NoError(t, d.AddReference(volume, p))
		assert.Error(t, d.CheckReferences())

		require.NoError(t, d.AddReference(issue, p))
		assert.NoError(t, d.CheckReferences())
	})
}

func TestDocument_IssueRegistry(t *testing.T) {
	d := New()

	assert.False(t, d.HasIssue("1925-03-01_1"))
	d.RegisterIssue("1925-03-01_1", 4)
	assert.True(t, d.HasIssue("1925-03-01_1"))

	node, ok := d.Issue("1925-03-01_1")
	assert.True(t, ok)
	assert.Equal(t, NodeID(4), node)

	// Registering twice keeps the first entry.
	d.RegisterIssue("1925-03-01_1", 9)
	require.Len(t, d.IssueRefs, 1)
	assert.Equal(t, NodeID(4), d.IssueRefs[0].Node)
}

func TestDocument_EncodeDecode(t *testing.T) {
	r := testRuleset(t)
	d, volume, book := buildSkeleton(t, r)

	issue, err := d.AddLogicalChild(r, volume, "NewspaperIssue")
	require.NoError(t, err)
	require.NoError(t, d.AddMetadata(r, issue, "DateIssued", "1925-03-01"))
	p, err := d.AddPhysicalChild(r, book, "page")
	require.NoError(t, err)
	require.NoError(t, d.AddReference(volume, p))
	require.NoError(t, d.AddReference(issue, p))
	require.NoError(t, d.AddContentFile(p, ContentFile{MimeType: "image/tiff", Location: "file://1925-03-01_001.tiff"}))
	d.RegisterIssue("1925-03-01_1", issue)

	data, err := d.Encode()
	require.NoError(t, err)

	restored, err := Decode(data)
	require.NoError(t, err)

	// Everything carries over: trees, references, registry, counters.
	assert.Equal(t, 1, restored.PhysicalPageCount())
	assert.True(t, restored.HasIssue("1925-03-01_1"))
	assert.NoError(t, restored.CheckReferences())

	restoredVolume, err := restored.Volume()
	require.NoError(t, err)
	assert.Equal(t, volume, restoredVolume)

	v, ok := restored.FindMetadata(issue, "DateIssued")
	assert.True(t, ok)
	assert.Equal(t, "1925-03-01", v)

	// A decoded document accepts further appends.
	p2, err := restored.AddPhysicalChild(r, restored.PhysicalRoot, "page")
	require.NoError(t, err)
	assert.Equal(t, 2, restored.PhysicalPageCount())
	require.NoError(t, restored.AddReference(restoredVolume, p2))

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := Decode([]byte("{not json"))
		assert.Error(t, err)
	})
}
