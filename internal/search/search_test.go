package search

import (
	"testing"

	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCases() []domain.Lawsuit {
	return []domain.Lawsuit{
		{ID: "1", CompanyName: "Acme Games", CaseName: "Doe v. Acme Games", Keywords: []string{"loot box"}},
		{ID: "2", CompanyName: "Blip Interactive", CaseName: "Roe v. Blip", DocketNumber: "3:24-cv-0100"},
		{ID: "3", CompanyName: "acme games", CaseName: "State v. Acme"},
		{ID: "4", CompanyName: "Zed Studios", CaseName: "Class Action re Zed"},
	}
}

func TestFilterEmptyQueryKeepsOrder(t *testing.T) {
	idx := NewCaseIndex(testCases())
	assert.Equal(t, 4, idx.Len())

	matches := idx.Filter("  ")
	require.Len(t, matches, 4)
	for i, m := range matches {
		assert.Equal(t, i, m.Index)
	}
}

func TestFilterMatchesCompanyAndKeywords(t *testing.T) {
	idx := NewCaseIndex(testCases())

	matches := idx.Filter("Blip")
	require.NotEmpty(t, matches)
	assert.Equal(t, "2", matches[0].Case.ID)

	matches = idx.Filter("loot")
	require.Len(t, matches, 1)
	assert.Equal(t, "1", matches[0].Case.ID)

	assert.Empty(t, idx.Filter("qqqq"))
}

func TestCompanies(t *testing.T) {
	assert.Equal(t, []string{"Acme Games", "Blip Interactive", "Zed Studios"}, Companies(testCases()))
	assert.Empty(t, Companies(nil))
}

func TestSuggestCompanies(t *testing.T) {
	names := []string{"Acme Games", "Blip Interactive", "Zed Studios", "Acme"}

	got := SuggestCompanies("acme", names, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme", got[0], "closest match first")
	assert.Equal(t, "Acme Games", got[1])

	assert.Equal(t, []string{"Blip Interactive"}, SuggestCompanies("BLP", names, 5))
	assert.Len(t, SuggestCompanies("a", names, 1), 1)
	assert.Nil(t, SuggestCompanies("", names, 5))
}
