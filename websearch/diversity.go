package websearch

import (
	"sort"

	"github.com/poiesic/scholar/core"
)

// Diversity summarizes the source mix of a set of cited references:
// how many came from the corpus versus the web, and how many distinct
// web domains contributed.
func Diversity(sources []core.SourceRef) *core.DiversityReport {
	report := &core.DiversityReport{}
	domains := make(map[string]bool)

	for _, src := range sources {
		report.TotalSources++
		switch src.Kind {
		case core.SourceWeb:
			report.WebSources++
			if src.Domain != "" {
				domains[src.Domain] = true
			}
		default:
			report.CorpusSources++
		}
	}

	report.UniqueDomains = len(domains)
	report.Domains = make([]string, 0, len(domains))
	for d := range domains {
		report.Domains = append(report.Domains, d)
	}
	sort.Strings(report.Domains)

	if report.TotalSources > 0 {
		report.WebPercentage = float64(report.WebSources) / float64(report.TotalSources) * 100
	}

	return report
}
