package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-report/internal/domain"
)

func testMeta() Meta {
	return Meta{
		Username: "octocat",
		// 10:30 UTC is 19:30 JST.
		GeneratedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		SampleSize:  5,
	}
}

func testRepo(name, language string, kb int64, created time.Time) domain.Repository {
	return domain.Repository{
		Name:            name,
		NameWithOwner:   "octocat/" + name,
		PrimaryLanguage: &domain.Language{Name: language},
		CreatedAt:       created,
		DiskUsageKB:     kb,
		URL:             "https://github.com/octocat/" + name,
	}
}

// fullStats mirrors what the aggregation produces for a small account.
func fullStats() *domain.Stats {
	alpha := testRepo("alpha", "Go", 2048, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	beta := testRepo("beta", "Python", 512, time.Date(2023, 11, 1, 9, 0, 0, 0, time.UTC))

	return &domain.Stats{
		Total:        2,
		Public:       2,
		TotalSizeMB:  2.5,
		MeanSizeMB:   1.25,
		MedianSizeMB: 1.25,
		TotalStars:   5,
		ByLanguage:   map[string]int{"Go": 1, "Python": 1},
		ByYear:       map[string]int{"2024": 1, "2023": 1},
		ByMonth:      map[string]int{"2024-03": 1, "2023-11": 1},
		BySizeBucket: []domain.SizeBucket{
			{Label: "< 1MB", Count: 1, Repos: []domain.Repository{beta}},
			{Label: "1-10MB", Count: 1, Repos: []domain.Repository{alpha}},
			{Label: "10-100MB", Count: 0, Repos: []domain.Repository{}},
			{Label: "> 100MB", Count: 0, Repos: []domain.Repository{}},
		},
		RecentRepos:     []domain.Repository{alpha, beta},
		LargestRepos:    []domain.Repository{alpha, beta},
		LinesByLanguage: map[string]int64{},
	}
}

// emptyStats is the aggregation result for zero repositories.
func emptyStats() *domain.Stats {
	return &domain.Stats{
		ByLanguage:      map[string]int{},
		ByYear:          map[string]int{},
		ByMonth:         map[string]int{},
		LinesByLanguage: map[string]int64{},
		BySizeBucket: []domain.SizeBucket{
			{Label: "< 1MB", Repos: []domain.Repository{}},
			{Label: "1-10MB", Repos: []domain.Repository{}},
			{Label: "10-100MB", Repos: []domain.Repository{}},
			{Label: "> 100MB", Repos: []domain.Repository{}},
		},
	}
}

func TestRenderHTML_Deterministic(t *testing.T) {
	st := fullStats()
	m := testMeta()

	first := RenderHTML(st, m)
	second := RenderHTML(st, m)

	assert.Equal(t, first, second, "identical input must render byte-identical documents")
}

func TestRenderHTML_Structure(t *testing.T) {
	doc := string(RenderHTML(fullStats(), testMeta()))

	for _, id := range []string{"overview", "timeline", "size", "language"} {
		assert.Contains(t, doc, `<section id="`+id+`"`, "tab section %q", id)
		assert.Contains(t, doc, `id="btn-`+id+`"`, "tab button %q", id)
	}
	assert.Contains(t, doc, chartJSCDN)
	assert.Contains(t, doc, "@octocat")
	assert.Contains(t, doc, "2025-03-01 19:30") // JST header timestamp
	assert.Contains(t, doc, "1-10MB")
	assert.Contains(t, doc, "octocat/alpha")
	assert.Contains(t, doc, "all time")
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.True(t, strings.HasSuffix(doc, "</html>\n"))
}

func TestRenderHTML_EscapesRepositoryText(t *testing.T) {
	st := fullStats()
	evil := testRepo("x", "Go", 10, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	evil.NameWithOwner = `octocat/<script>alert(1)</script>`
	st.RecentRepos = []domain.Repository{evil}

	doc := string(RenderHTML(st, testMeta()))

	assert.Contains(t, doc, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, doc, "<script>alert(1)")
}

func TestRenderHTML_EmptyReport(t *testing.T) {
	doc := string(RenderHTML(emptyStats(), testMeta()))

	assert.Contains(t, doc, "No repositories.")
	for _, id := range []string{"overview", "timeline", "size", "language"} {
		assert.Contains(t, doc, `<section id="`+id+`"`)
	}
	// The monthly chart renders regardless, with 24 zero months.
	assert.Contains(t, doc, "monthlyChart")
}

func TestRenderHTML_SampledCards(t *testing.T) {
	st := fullStats()
	st.SampledRepos = 2
	st.EstimatedTotalLines = 123456
	st.EstimatedTotalFiles = 789
	st.LinesByLanguage = map[string]int64{"Go": 100000, "Python": 23456}

	doc := string(RenderHTML(st, testMeta()))

	assert.Contains(t, doc, "123,456")
	assert.Contains(t, doc, "Estimated lines")
	assert.Contains(t, doc, "extrapolated from the 2 largest repositories")
}

func TestMonthSeries(t *testing.T) {
	byMonth := map[string]int{"2025-03": 2, "2024-06": 1, "2019-01": 9}
	generated := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	labels, counts := monthSeries(byMonth, generated, 24)

	require.Len(t, labels, 24)
	require.Len(t, counts, 24)
	assert.Equal(t, "2023-04", labels[0])
	assert.Equal(t, "2025-03", labels[23])
	assert.Equal(t, 2, counts[23])
	// Months outside the window are dropped, empty months inside are zero.
	assert.NotContains(t, labels, "2019-01")
	assert.Equal(t, 1, counts[14]) // 2024-06
}

func TestGroupInt(t *testing.T) {
	testCases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{1234, "1,234"},
		{1234567, "1,234,567"},
		{-9876543, "-9,876,543"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, groupInt(tc.in), "groupInt(%d)", tc.in)
	}
}
