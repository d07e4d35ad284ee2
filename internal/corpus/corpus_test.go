package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/markfind/internal/query"
)

func testCorpus() *Corpus {
	return &Corpus{
		Bookmarks: []Entry{{ID: "b1", Type: TypeBookmark}},
		Tabs:      []Entry{{ID: "t1", Type: TypeTab}},
		History:   []Entry{{ID: "h1", Type: TypeHistory}},
	}
}

func TestDatasetsForMode(t *testing.T) {
	c := testCorpus()

	tests := []struct {
		mode query.Mode
		want []string
	}{
		{query.ModeBookmarks, []string{DatasetBookmarks}},
		{query.ModeTabs, []string{DatasetTabs}},
		{query.ModeHistory, []string{DatasetTabs, DatasetHistory}},
		{query.ModeSearch, nil},
		{query.ModeAll, []string{DatasetBookmarks, DatasetTabs, DatasetHistory}},
		{query.Mode("bogus"), []string{DatasetBookmarks, DatasetTabs, DatasetHistory}},
	}

	for _, tt := range tests {
		got := c.DatasetsForMode(tt.mode)
		var names []string
		for _, d := range got {
			names = append(names, d.Name)
		}
		assert.Equal(t, tt.want, names, "mode=%s", tt.mode)
	}
}

func TestNewResultCopiesEntry(t *testing.T) {
	c := testCorpus()
	res := NewResult(c.Bookmarks[0], ApproachPrecise, 1)
	require.Equal(t, "b1", res.ID)

	res.Title = "mutated"
	assert.Empty(t, c.Bookmarks[0].Title, "result mutation must not reach the corpus")
	assert.Equal(t, ApproachPrecise, res.Approach)
	assert.Equal(t, 1.0, res.SearchScore)
}
