package datastructure

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const boroondaraCSV = `Scats_number,Site description,Latitude,Longitude,Neighbours
970,WARRIGAL_RD N of HIGH STREET_RD,-37.86703,145.09159,3685;2846
2846,HIGH STREET_RD W of WARRIGAL_RD,-37.86111,145.05867,970;4063
3685,WARRIGAL_RD N of TOORAK_RD,-37.85192,145.09432,970;2000
2000,WARRIGAL_RD N of TOORAK_RD,-37.8516,145.09459,3685;4043
4043,BURKE_RD S of TOORAK_RD,-37.84683,145.05561,2000
4063,BALWYN_RD S of WHITEHORSE_RD,-37.80491,145.08237,2846
`

func TestParseIntersectionGraph(t *testing.T) {
	g, err := ParseIntersectionGraph(strings.NewReader(boroondaraCSV), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 6, g.NumberOfVertices())
	assert.Equal(t, []string{"3685", "2846"}, g.Neighbors("970"))
	assert.ElementsMatch(t, []string{"2846"}, g.Neighbors("4063"))

	lat, lon, err := g.Coordinates("3685")
	require.NoError(t, err)
	assert.InDelta(t, -37.85192, lat, 1e-9)
	assert.InDelta(t, 145.09432, lon, 1e-9)

	_, _, err = g.Coordinates("9999")
	assert.True(t, errors.Is(err, ErrUnknownNode))
	assert.Empty(t, g.Neighbors("9999"))
}

func TestParseIntersectionGraphSymmetricEdges(t *testing.T) {
	csv := `Scats_number,Latitude,Longitude,Neighbours
1,-37.1,145.1,2;3
2,-37.2,145.2,
3,-37.3,145.3,1
`
	g, err := ParseIntersectionGraph(strings.NewReader(csv), zap.NewNop())
	require.NoError(t, err)

	for _, v := range g.GetVertices() {
		for _, nb := range g.GetNeighbors(v.GetID()) {
			assert.Contains(t, g.GetNeighbors(nb), v.GetID(), "edge %s-%s should be queryable both ways",
				v.GetSiteId(), g.GetSiteId(nb))
		}
	}
	assert.Equal(t, []string{"1"}, g.Neighbors("2"))
	assert.Equal(t, 4, g.NumberOfEdges())
}

func TestParseIntersectionGraphSkipsMalformedRecords(t *testing.T) {
	csv := `Scats_number,Latitude,Longitude,Neighbours
1,-37.1,145.1,2;3;42
2,not-a-number,145.2,1
3,-37.3,145.3,1
,-37.4,145.4,1
3,-37.5,145.5,1
4,-37.6
`
	core, logs := observer.New(zap.WarnLevel)
	g, err := ParseIntersectionGraph(strings.NewReader(csv), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumberOfVertices())
	assert.Equal(t, []string{"3"}, g.Neighbors("1"))
	// bad latitude, empty id, duplicated id, short record, dangling neighbour 2, dangling neighbour 42
	assert.Equal(t, 6, logs.Len())
}

func TestParseIntersectionGraphEmpty(t *testing.T) {
	testCases := []struct {
		name string
		csv  string
	}{
		{name: "no content", csv: ""},
		{name: "header only", csv: "Scats_number,Latitude,Longitude,Neighbours\n"},
		{name: "only malformed", csv: "Scats_number,Latitude,Longitude,Neighbours\n1,x,y,2\n"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIntersectionGraph(strings.NewReader(tt.csv), zap.NewNop())
			assert.ErrorIs(t, err, ErrEmptyGraph)
		})
	}
}

func TestParseIntersectionGraphMissingColumn(t *testing.T) {
	_, err := ParseIntersectionGraph(strings.NewReader("Scats_number,Latitude,Longitude\n1,2,3\n"), zap.NewNop())
	assert.ErrorIs(t, err, errMissingColumns)
}

func TestReadIntersectionGraphBzip2(t *testing.T) {
	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bz.Write([]byte(boroondaraCSV))
	require.NoError(t, err)
	require.NoError(t, bz.Close())

	dir := t.TempDir()
	compressed := filepath.Join(dir, "neighbouring_intersections.csv.bz2")
	require.NoError(t, os.WriteFile(compressed, buf.Bytes(), 0644))
	plain := filepath.Join(dir, "neighbouring_intersections.csv")
	require.NoError(t, os.WriteFile(plain, []byte(boroondaraCSV), 0644))

	gz, err := ReadIntersectionGraph(compressed, zap.NewNop())
	require.NoError(t, err)
	gp, err := ReadIntersectionGraph(plain, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, gp.NumberOfVertices(), gz.NumberOfVertices())
	assert.Equal(t, gp.NumberOfEdges(), gz.NumberOfEdges())

	_, err = ReadIntersectionGraph(filepath.Join(dir, "missing.csv"), zap.NewNop())
	assert.Error(t, err)
}

func TestComponents(t *testing.T) {
	g, _, err := NewIntersectionGraph([]Site{
		NewSite("a", -37.80, 145.00, []string{"b"}),
		NewSite("b", -37.81, 145.00, []string{"c"}),
		NewSite("c", -37.82, 145.00, nil),
		NewSite("x", -37.90, 145.10, []string{"y"}),
		NewSite("y", -37.91, 145.10, nil),
		NewSite("z", -37.95, 145.20, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumberOfComponents())

	idx := func(site string) Index {
		u, ok := g.GetIndex(site)
		require.True(t, ok)
		return u
	}
	assert.True(t, g.SameComponent(idx("a"), idx("c")))
	assert.True(t, g.SameComponent(idx("c"), idx("a")))
	assert.True(t, g.SameComponent(idx("y"), idx("x")))
	assert.False(t, g.SameComponent(idx("a"), idx("x")))
	assert.False(t, g.SameComponent(idx("z"), idx("y")))
	assert.False(t, g.SameComponent(idx("a"), Index(100)))
}
