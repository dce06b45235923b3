package report

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
)

const chartJSCDN = "https://cdn.jsdelivr.net/npm/chart.js"

// langColors cycles through chart segment colors, loosely following the hues
// GitHub uses for popular languages.
var langColors = []string{
	"#f1e05a", "#e34c26", "#3572A5", "#89e051", "#563d7c",
	"#b07219", "#012456", "#555555", "#427819", "#00ADD8",
}

const pageStyle = `    body { margin: 0; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; background: #f6f8fa; color: #24292e; }
    .container { max-width: 1100px; margin: 0 auto; padding: 24px; }
    header h1 { margin: 0 0 4px; font-size: 28px; }
    header .subtitle { margin: 0 0 24px; color: #586069; }
    .tabs { display: flex; gap: 4px; border-bottom: 2px solid #e1e4e8; margin-bottom: 24px; }
    .tab-button { border: none; background: none; padding: 10px 16px; font-size: 15px; cursor: pointer; color: #586069; border-bottom: 2px solid transparent; margin-bottom: -2px; }
    .tab-button.active { color: #0366d6; border-bottom-color: #0366d6; font-weight: 600; }
    .tab-content { display: none; }
    .tab-content.active { display: block; }
    .cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(180px, 1fr)); gap: 12px; margin-bottom: 24px; }
    .card { background: #fff; border: 1px solid #e1e4e8; border-radius: 6px; padding: 16px; }
    .card-value { font-size: 24px; font-weight: 600; color: #0366d6; }
    .card-label { font-size: 13px; color: #586069; margin-top: 4px; }
    .panel { background: #fff; border: 1px solid #e1e4e8; border-radius: 6px; padding: 20px; margin-bottom: 24px; }
    .panel h2 { margin: 0 0 16px; font-size: 18px; }
    .panel h3 { margin: 20px 0 8px; font-size: 15px; color: #586069; }
    .chart-box { position: relative; max-width: 720px; margin: 0 auto; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #e1e4e8; }
    th { color: #586069; font-weight: 600; }
    td a { color: #0366d6; text-decoration: none; }
    td a:hover { text-decoration: underline; }
    .badge { display: inline-block; font-size: 11px; color: #586069; border: 1px solid #e1e4e8; border-radius: 10px; padding: 0 7px; margin-left: 6px; }
    .empty { color: #586069; font-style: italic; }
    .note { font-size: 13px; color: #586069; }
    footer { color: #586069; font-size: 13px; text-align: center; padding: 16px 0; }
`

// RenderHTML renders the four-tab report. The output is deterministic:
// identical stats and meta yield byte-identical documents.
func RenderHTML(st *domain.Stats, m Meta) []byte {
	var b strings.Builder

	writeHead(&b, m)
	writeHeader(&b, st, m)
	writeTabBar(&b)
	writeOverviewTab(&b, st, m)
	writeTimelineTab(&b, st)
	writeSizeTab(&b, st)
	writeLanguageTab(&b, st)
	b.WriteString("    <footer>Generated with repo-report via the GitHub CLI</footer>\n")
	b.WriteString("  </div>\n")
	writeScript(&b, st, m)
	b.WriteString("</body>\n</html>\n")

	return []byte(b.String())
}

func writeHead(b *strings.Builder, m Meta) {
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("  <meta charset=\"utf-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(b, "  <title>GitHub Repository Report - %s</title>\n", html.EscapeString(m.Username))
	fmt.Fprintf(b, "  <script src=%q></script>\n", chartJSCDN)
	b.WriteString("  <style>\n")
	b.WriteString(pageStyle)
	b.WriteString("  </style>\n</head>\n<body>\n  <div class=\"container\">\n")
}

func writeHeader(b *strings.Builder, st *domain.Stats, m Meta) {
	b.WriteString("    <header>\n      <h1>GitHub Repository Report</h1>\n")
	fmt.Fprintf(b, "      <p class=\"subtitle\">@%s &middot; %d repositories &middot; range: %s &middot; generated %s JST</p>\n",
		html.EscapeString(m.Username), st.Total, html.EscapeString(m.Filter.String()),
		m.GeneratedAt.In(domain.JST).Format("2006-01-02 15:04"))
	b.WriteString("    </header>\n")
}

func writeTabBar(b *strings.Builder) {
	b.WriteString("    <nav class=\"tabs\">\n")
	tabs := []struct{ id, label string }{
		{"overview", "Overview"},
		{"timeline", "Timeline"},
		{"size", "Size"},
		{"language", "Language"},
	}
	for i, t := range tabs {
		active := ""
		if i == 0 {
			active = " active"
		}
		fmt.Fprintf(b, "      <button id=\"btn-%s\" class=\"tab-button%s\" onclick=\"showTab('%s')\">%s</button>\n",
			t.id, active, t.id, t.label)
	}
	b.WriteString("    </nav>\n")
}

func writeOverviewTab(b *strings.Builder, st *domain.Stats, m Meta) {
	b.WriteString("    <section id=\"overview\" class=\"tab-content active\">\n")
	b.WriteString("      <div class=\"cards\">\n")
	writeCard(b, "Total repositories", strconv.Itoa(st.Total))
	writeCard(b, "Public", strconv.Itoa(st.Public))
	writeCard(b, "Private", strconv.Itoa(st.Private))
	writeCard(b, "Forks", strconv.Itoa(st.Forks))
	writeCard(b, "Archived", strconv.Itoa(st.Archived))
	writeCard(b, "Total size", fmt.Sprintf("%.2f MB", st.TotalSizeMB))
	writeCard(b, "Mean size", fmt.Sprintf("%.2f MB", st.MeanSizeMB))
	writeCard(b, "Median size", fmt.Sprintf("%.2f MB", st.MedianSizeMB))
	writeCard(b, "Stars received", groupInt(int64(st.TotalStars)))
	writeCard(b, "Times forked", groupInt(int64(st.TotalForks)))
	if st.SampledRepos > 0 {
		writeCard(b, "Estimated lines", groupInt(st.EstimatedTotalLines))
		writeCard(b, "Estimated files", groupInt(st.EstimatedTotalFiles))
	}
	b.WriteString("      </div>\n")
	if st.SampledRepos > 0 {
		fmt.Fprintf(b, "      <p class=\"note\">Line and file counts are extrapolated from the %d largest repositories (sample size %d).</p>\n",
			st.SampledRepos, m.SampleSize)
	}
	b.WriteString("      <div class=\"panel\">\n        <h2>Languages</h2>\n")
	if len(st.ByLanguage) == 0 {
		b.WriteString("        <p class=\"empty\">No repositories.</p>\n")
	} else {
		b.WriteString("        <div class=\"chart-box\"><canvas id=\"languageChart\"></canvas></div>\n")
	}
	b.WriteString("      </div>\n")
	b.WriteString("      <div class=\"panel\">\n        <h2>Created per month (last 24 months)</h2>\n")
	b.WriteString("        <div class=\"chart-box\"><canvas id=\"monthlyChart\"></canvas></div>\n")
	b.WriteString("      </div>\n    </section>\n")
}

func writeTimelineTab(b *strings.Builder, st *domain.Stats) {
	b.WriteString("    <section id=\"timeline\" class=\"tab-content\">\n")
	b.WriteString("      <div class=\"panel\">\n        <h2>Created per year</h2>\n")
	if len(st.ByYear) == 0 {
		b.WriteString("        <p class=\"empty\">No repositories.</p>\n")
	} else {
		b.WriteString("        <div class=\"chart-box\"><canvas id=\"yearlyChart\"></canvas></div>\n")
		b.WriteString("        <h3>By year</h3>\n")
		writeCountTable(b, "Year", st.ByYear, sortedKeys(st.ByYear))
	}
	b.WriteString("      </div>\n")
	b.WriteString("      <div class=\"panel\">\n        <h2>Most recently created</h2>\n")
	writeRepoTable(b, st.RecentRepos)
	b.WriteString("      </div>\n    </section>\n")
}

func writeSizeTab(b *strings.Builder, st *domain.Stats) {
	b.WriteString("    <section id=\"size\" class=\"tab-content\">\n")
	b.WriteString("      <div class=\"panel\">\n        <h2>Size distribution</h2>\n")
	b.WriteString("        <div class=\"chart-box\"><canvas id=\"sizeChart\"></canvas></div>\n")
	for _, bucket := range st.BySizeBucket {
		fmt.Fprintf(b, "        <h3>%s &mdash; %d repositories</h3>\n", html.EscapeString(bucket.Label), bucket.Count)
		if bucket.Count == 0 {
			continue
		}
		shown := bucket.Repos
		if len(shown) > 10 {
			shown = shown[:10]
		}
		writeRepoTable(b, shown)
		if rest := bucket.Count - len(shown); rest > 0 {
			fmt.Fprintf(b, "        <p class=\"note\">&hellip; and %d more</p>\n", rest)
		}
	}
	b.WriteString("      </div>\n")
	b.WriteString("      <div class=\"panel\">\n        <h2>Largest repositories</h2>\n")
	writeRepoTable(b, st.LargestRepos)
	b.WriteString("      </div>\n    </section>\n")
}

func writeLanguageTab(b *strings.Builder, st *domain.Stats) {
	b.WriteString("    <section id=\"language\" class=\"tab-content\">\n")
	b.WriteString("      <div class=\"panel\">\n        <h2>Top languages</h2>\n")
	if len(st.ByLanguage) == 0 {
		b.WriteString("        <p class=\"empty\">No repositories.</p>\n")
	} else {
		b.WriteString("        <div class=\"chart-box\"><canvas id=\"langBarChart\"></canvas></div>\n")
	}
	b.WriteString("      </div>\n")
	b.WriteString("      <div class=\"panel\">\n        <h2>All languages</h2>\n")
	langs := sortedCounts(st.ByLanguage)
	if len(langs) == 0 {
		b.WriteString("        <p class=\"empty\">No repositories.</p>\n")
	} else {
		withLines := len(st.LinesByLanguage) > 0
		b.WriteString("        <table>\n          <thead><tr><th>Language</th><th>Repositories</th><th>Share</th>")
		if withLines {
			b.WriteString("<th>Estimated lines</th>")
		}
		b.WriteString("</tr></thead>\n          <tbody>\n")
		for _, lc := range langs {
			share := 0.0
			if st.Total > 0 {
				share = float64(lc.Count) / float64(st.Total) * 100
			}
			fmt.Fprintf(b, "            <tr><td>%s</td><td>%d</td><td>%.1f%%</td>",
				html.EscapeString(lc.Name), lc.Count, share)
			if withLines {
				fmt.Fprintf(b, "<td>%s</td>", groupInt(st.LinesByLanguage[lc.Name]))
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("          </tbody>\n        </table>\n")
	}
	b.WriteString("      </div>\n    </section>\n")
}

func writeScript(b *strings.Builder, st *domain.Stats, m Meta) {
	b.WriteString("  <script>\n")
	b.WriteString(`    function showTab(id) {
      var contents = document.querySelectorAll('.tab-content');
      for (var i = 0; i < contents.length; i++) contents[i].classList.remove('active');
      var buttons = document.querySelectorAll('.tab-button');
      for (var i = 0; i < buttons.length; i++) buttons[i].classList.remove('active');
      document.getElementById(id).classList.add('active');
      document.getElementById('btn-' + id).classList.add('active');
    }
`)

	langs := sortedCounts(st.ByLanguage)
	if len(langs) > 0 {
		top := langs
		if len(top) > 15 {
			top = top[:15]
		}
		labels := make([]string, len(top))
		counts := make([]int, len(top))
		for i, lc := range top {
			labels[i] = lc.Name
			counts[i] = lc.Count
		}
		fmt.Fprintf(b, `    new Chart(document.getElementById('languageChart'), {
      type: 'doughnut',
      data: { labels: %s, datasets: [{ data: %s, backgroundColor: %s }] },
      options: { plugins: { legend: { position: 'right' } } }
    });
`, jsValue(labels), jsValue(counts), jsValue(colorCycle(len(top))))
	}

	monthLabels, monthCounts := monthSeries(st.ByMonth, m.GeneratedAt, 24)
	fmt.Fprintf(b, `    new Chart(document.getElementById('monthlyChart'), {
      type: 'bar',
      data: { labels: %s, datasets: [{ label: 'Repositories created', data: %s, backgroundColor: '#0366d6' }] },
      options: { scales: { y: { beginAtZero: true, ticks: { precision: 0 } } } }
    });
`, jsValue(monthLabels), jsValue(monthCounts))

	if len(st.ByYear) > 0 {
		years := sortedKeys(st.ByYear)
		yearCounts := make([]int, len(years))
		for i, y := range years {
			yearCounts[i] = st.ByYear[y]
		}
		fmt.Fprintf(b, `    new Chart(document.getElementById('yearlyChart'), {
      type: 'bar',
      data: { labels: %s, datasets: [{ label: 'Repositories created', data: %s, backgroundColor: '#28a745' }] },
      options: { scales: { y: { beginAtZero: true, ticks: { precision: 0 } } } }
    });
`, jsValue(years), jsValue(yearCounts))
	}

	bucketLabels := make([]string, len(st.BySizeBucket))
	bucketCounts := make([]int, len(st.BySizeBucket))
	for i, bucket := range st.BySizeBucket {
		bucketLabels[i] = bucket.Label
		bucketCounts[i] = bucket.Count
	}
	fmt.Fprintf(b, `    new Chart(document.getElementById('sizeChart'), {
      type: 'bar',
      data: { labels: %s, datasets: [{ label: 'Repositories', data: %s, backgroundColor: '#586069' }] },
      options: { scales: { y: { beginAtZero: true, ticks: { precision: 0 } } } }
    });
`, jsValue(bucketLabels), jsValue(bucketCounts))

	if len(langs) > 0 {
		top := langs
		if len(top) > 10 {
			top = top[:10]
		}
		labels := make([]string, len(top))
		counts := make([]int, len(top))
		for i, lc := range top {
			labels[i] = lc.Name
			counts[i] = lc.Count
		}
		fmt.Fprintf(b, `    new Chart(document.getElementById('langBarChart'), {
      type: 'bar',
      data: { labels: %s, datasets: [{ label: 'Repositories', data: %s, backgroundColor: %s }] },
      options: { indexAxis: 'y', scales: { x: { beginAtZero: true, ticks: { precision: 0 } } } }
    });
`, jsValue(labels), jsValue(counts), jsValue(colorCycle(len(top))))
	}

	b.WriteString("  </script>\n")
}

func writeCard(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "        <div class=\"card\"><div class=\"card-value\">%s</div><div class=\"card-label\">%s</div></div>\n",
		value, label)
}

func writeCountTable(b *strings.Builder, head string, counts map[string]int, keys []string) {
	fmt.Fprintf(b, "        <table>\n          <thead><tr><th>%s</th><th>Repositories</th></tr></thead>\n          <tbody>\n", head)
	for _, k := range keys {
		fmt.Fprintf(b, "            <tr><td>%s</td><td>%d</td></tr>\n", html.EscapeString(k), counts[k])
	}
	b.WriteString("          </tbody>\n        </table>\n")
}

func writeRepoTable(b *strings.Builder, repos []domain.Repository) {
	if len(repos) == 0 {
		b.WriteString("        <p class=\"empty\">No repositories.</p>\n")
		return
	}
	b.WriteString("        <table>\n          <thead><tr><th>Repository</th><th>Language</th><th>Size</th><th>Stars</th><th>Created</th></tr></thead>\n          <tbody>\n")
	for _, r := range repos {
		name := r.NameWithOwner
		if name == "" {
			name = r.Name
		}
		fmt.Fprintf(b, "            <tr><td><a href=\"%s\">%s</a>%s</td><td>%s</td><td>%.2f MB</td><td>%d</td><td>%s</td></tr>\n",
			html.EscapeString(r.URL), html.EscapeString(name), repoBadges(r),
			html.EscapeString(r.LanguageName()), r.SizeMB(), r.StargazerCount,
			r.CreatedAt.In(domain.JST).Format("2006-01-02"))
	}
	b.WriteString("          </tbody>\n        </table>\n")
}

func repoBadges(r domain.Repository) string {
	var b strings.Builder
	if r.IsPrivate {
		b.WriteString(`<span class="badge">private</span>`)
	}
	if r.IsFork {
		b.WriteString(`<span class="badge">fork</span>`)
	}
	if r.IsArchived {
		b.WriteString(`<span class="badge">archived</span>`)
	}
	return b.String()
}

type langCount struct {
	Name  string
	Count int
}

// sortedCounts orders a count map by count descending, then name ascending.
func sortedCounts(m map[string]int) []langCount {
	out := make([]langCount, 0, len(m))
	for name, count := range m {
		out = append(out, langCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// monthSeries returns the n calendar months ending at the generation month,
// in chronological order, with zero counts for empty months.
func monthSeries(byMonth map[string]int, generatedAt time.Time, n int) ([]string, []int) {
	end := generatedAt.In(domain.JST)
	cur := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, domain.JST)
	labels := make([]string, 0, n)
	counts := make([]int, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := cur.AddDate(0, -i, 0).Format("2006-01")
		labels = append(labels, key)
		counts = append(counts, byMonth[key])
	}
	return labels, counts
}

// colorCycle returns n colors cycling through the language palette.
func colorCycle(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = langColors[i%len(langColors)]
	}
	return out
}

// jsValue marshals v for embedding in the inline script. encoding/json
// escapes angle brackets, which keeps the payload safe inside <script>.
func jsValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// groupInt formats n with comma grouping, e.g. 1234567 -> "1,234,567".
func groupInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
