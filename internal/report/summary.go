package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/naka-gawa/repo-report/internal/domain"
	"github.com/naka-gawa/repo-report/internal/output"
)

// Summary writes a compact terminal rendition of the stats to w.
func Summary(w io.Writer, m Meta, st *domain.Stats, repos []domain.Repository) error {
	fmt.Fprintf(w, "GitHub repository summary for @%s\n", m.Username)
	fmt.Fprintf(w, "Range: %s, generated %s JST\n\n", m.Filter.String(),
		m.GeneratedAt.In(domain.JST).Format("2006-01-02 15:04"))

	fmt.Fprintln(w, "Overview")
	overview := output.NewTableWithWriter(w, []string{"Metric", "Value"})
	overview.AddRow("Total repositories", strconv.Itoa(st.Total))
	overview.AddRow("Public / private", fmt.Sprintf("%d / %d", st.Public, st.Private))
	overview.AddRow("Forks", strconv.Itoa(st.Forks))
	overview.AddRow("Archived", strconv.Itoa(st.Archived))
	overview.AddRow("Total size", fmt.Sprintf("%.2f MB", st.TotalSizeMB))
	overview.AddRow("Mean / median size", fmt.Sprintf("%.2f / %.2f MB", st.MeanSizeMB, st.MedianSizeMB))
	overview.AddRow("Stars received", groupInt(int64(st.TotalStars)))
	overview.AddRow("Times forked", groupInt(int64(st.TotalForks)))
	if st.SampledRepos > 0 {
		overview.AddRow("Estimated lines", groupInt(st.EstimatedTotalLines))
		overview.AddRow("Estimated files", groupInt(st.EstimatedTotalFiles))
	}
	if err := overview.Render(); err != nil {
		return fmt.Errorf("failed to render overview table: %w", err)
	}

	if len(st.ByYear) > 0 {
		fmt.Fprintln(w, "\nRepositories created per year")
		years := output.NewTableWithWriter(w, []string{"Year", "Count"})
		for _, y := range sortedKeys(st.ByYear) {
			years.AddRow(y, strconv.Itoa(st.ByYear[y]))
		}
		if err := years.Render(); err != nil {
			return fmt.Errorf("failed to render year table: %w", err)
		}
	}

	if len(st.ByMonth) > 0 {
		fmt.Fprintln(w, "\nLast 6 months")
		months := output.NewTableWithWriter(w, []string{"Month", "Count"})
		labels, counts := monthSeries(st.ByMonth, m.GeneratedAt, 6)
		for i, label := range labels {
			months.AddRow(label, strconv.Itoa(counts[i]))
		}
		if err := months.Render(); err != nil {
			return fmt.Errorf("failed to render month table: %w", err)
		}
	}

	if langs := sortedCounts(st.ByLanguage); len(langs) > 0 {
		if len(langs) > 10 {
			langs = langs[:10]
		}
		fmt.Fprintln(w, "\nTop languages")
		table := output.NewTableWithWriter(w, []string{"Language", "Repositories"})
		for _, lc := range langs {
			table.AddRow(lc.Name, strconv.Itoa(lc.Count))
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render language table: %w", err)
		}
	}

	newest := st.RecentRepos
	if len(newest) > 5 {
		newest = newest[:5]
	}
	if err := summaryRepoTable(w, "Newest repositories", newest); err != nil {
		return err
	}

	oldest := append([]domain.Repository(nil), repos...)
	sort.SliceStable(oldest, func(i, j int) bool {
		return oldest[i].CreatedAt.Before(oldest[j].CreatedAt)
	})
	if len(oldest) > 5 {
		oldest = oldest[:5]
	}
	if err := summaryRepoTable(w, "Oldest repositories", oldest); err != nil {
		return err
	}

	if st.SampledRepos > 0 {
		fmt.Fprintf(w, "\nLine counts extrapolated from the %d largest repositories.\n", st.SampledRepos)
	}
	return nil
}

func summaryRepoTable(w io.Writer, title string, repos []domain.Repository) error {
	if len(repos) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s\n", title)
	table := output.NewTableWithWriter(w, []string{"Repository", "Language", "Visibility", "Size", "Created"})
	for _, r := range repos {
		name := r.NameWithOwner
		if name == "" {
			name = r.Name
		}
		table.AddRow(name, r.LanguageName(), r.Visibility(),
			fmt.Sprintf("%.2f MB", r.SizeMB()),
			r.CreatedAt.In(domain.JST).Format("2006-01-02"))
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render repository table: %w", err)
	}
	return nil
}
