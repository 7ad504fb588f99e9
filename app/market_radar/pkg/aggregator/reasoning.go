package aggregator

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// NoDataMarker 未保留任何片段时推理文本的开头
const NoDataMarker = "No relevant data found"

// reasoning 依次说明：使用的查询、各来源数量、情绪覆盖、数据量警告
func reasoning(in Input, r *model.Report, st stats) string {
	var parts []string

	if n := len(in.Queries); n > 0 {
		quoted := make([]string, n)
		for i, q := range in.Queries {
			quoted[i] = fmt.Sprintf("%q", q)
		}
		s := fmt.Sprintf("Used %d search %s (%s).", n, plural(n, "query", "queries"), strings.Join(quoted, ", "))
		if in.QueriesFromFallback {
			s += " Queries were built from the profile text because generated queries were unavailable."
		}
		parts = append(parts, s)
	} else {
		parts = append(parts, "No search queries were available.")
	}

	if len(in.Candidates) > 0 {
		sources := make([]string, 0, len(in.Candidates))
		for _, res := range in.Candidates {
			sources = append(sources, describeSource(res, st))
		}
		parts = append(parts, "Sources: "+strings.Join(sources, "; ")+".")
	}

	parts = append(parts, describeSentiment(in.Sentiment))

	switch retained := len(r.Quotes); {
	case retained == 0 && st.total > 0:
		parts = append(parts, fmt.Sprintf("%s: all %d %s scored below the relevance threshold of %d, so the results were off-topic for this profile.",
			NoDataMarker, st.total, plural(st.total, "candidate", "candidates"), model.AcceptanceThreshold))
	case retained == 0:
		parts = append(parts, NoDataMarker+": no source returned any candidates. This report contains no market evidence.")
	case retained < LowDataThreshold:
		parts = append(parts, fmt.Sprintf("Low data warning: only %d real %s passed the relevance threshold; treat these findings as directional.",
			retained, plural(retained, "quote", "quotes")))
	default:
		parts = append(parts, fmt.Sprintf("Found %d real quotes aligned with the profile.", retained))
	}

	return strings.Join(parts, " ")
}

func describeSource(res AdapterResult, st stats) string {
	switch res.Outcome.Status {
	case model.OutcomeUnavailable:
		return fmt.Sprintf("%s unavailable (%s)", res.Source, res.Outcome.Reason)
	case model.OutcomeFailed:
		return fmt.Sprintf("%s failed (%s)", res.Source, res.Outcome.Reason)
	}
	s := fmt.Sprintf("%s found %d, %d passed the relevance threshold of %d",
		res.Source, st.found[res.Source], st.passed[res.Source], model.AcceptanceThreshold)
	if res.Outcome.Status == model.OutcomePartial {
		s += " (partial results)"
	}
	return s
}

func describeSentiment(o model.Outcome[model.SentimentAggregate]) string {
	switch {
	case o.Status == model.OutcomeOK && o.Value.Analyzed:
		s := fmt.Sprintf("Sentiment analysis covered %d discussion %s (overall %s)",
			o.Value.PostCount, plural(o.Value.PostCount, "post", "posts"), o.Value.Tier)
		if len(o.Value.ThemeWords) > 0 {
			s += "; recurring themes: " + strings.Join(o.Value.ThemeWords, ", ")
		}
		return s + "."
	case o.Status == model.OutcomeUnavailable:
		return "Sentiment analysis was not available."
	case o.Status == model.OutcomeFailed:
		return fmt.Sprintf("Sentiment analysis failed (%s).", o.Reason)
	default:
		return "Sentiment analysis found no posts."
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
