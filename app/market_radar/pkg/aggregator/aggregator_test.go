package aggregator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/scorer"
)

// fixedScorer scores by exact text lookup.
type fixedScorer map[string]int

func (f fixedScorer) Evaluate(text string, _ model.Profile) scorer.Breakdown {
	return scorer.Breakdown{Raw: f[text], Score: f[text]}
}

type fixedClassifier map[string]model.Emotion

func (f fixedClassifier) Classify(text string) model.Emotion {
	if e, ok := f[text]; ok {
		return e
	}
	return model.EmotionSuccessful
}

var freelanceProfile = model.Profile{
	PainPoints:  "burned out juggling too many freelance clients",
	Audience:    "freelance designers",
	CoreProblem: "inconsistent income",
}

func video(cands ...model.Candidate) AdapterResult {
	return AdapterResult{Source: model.SourceVideoComment, Outcome: model.Outcome[[]model.Candidate]{Value: cands, Status: model.OutcomeOK}}
}

func cand(id, text string) model.Candidate {
	return model.Candidate{ID: id, Text: text, Source: model.SourceVideoComment, IsRealQuote: true}
}

func ids(quotes []model.ScoredCandidate) []string {
	out := make([]string, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q.ID)
	}
	return out
}

func TestRankingPreservesDiscoveryOrderOnTies(t *testing.T) {
	b := New(nil, WithScorer(fixedScorer{"a": 40, "b": 80, "c": 80, "d": 60}))
	r := b.Build(Input{
		Queries:    []string{"q"},
		Candidates: []AdapterResult{video(cand("1", "a"), cand("2", "b"), cand("3", "c"), cand("4", "d"))},
	})

	assert.Equal(t, []string{"2", "3", "4", "1"}, ids(r.Quotes))
	scores := []int{r.Quotes[0].RelevanceScore, r.Quotes[1].RelevanceScore, r.Quotes[2].RelevanceScore, r.Quotes[3].RelevanceScore}
	assert.Equal(t, []int{80, 80, 60, 40}, scores)
}

func TestDedupKeepsFirstSeen(t *testing.T) {
	b := New(nil, WithScorer(fixedScorer{"first": 70, "second": 90}))
	discussion := AdapterResult{Source: model.SourceDiscussion, Outcome: model.Outcome[[]model.Candidate]{
		Value:  []model.Candidate{{ID: "x", Text: "second", Source: model.SourceDiscussion, IsRealQuote: true}},
		Status: model.OutcomeOK,
	}}
	r := b.Build(Input{Candidates: []AdapterResult{video(cand("x", "first")), discussion}})

	require.Len(t, r.Quotes, 1)
	assert.Equal(t, "first", r.Quotes[0].Text)
	assert.Equal(t, 70, r.Quotes[0].RelevanceScore)
	assert.Equal(t, 1, r.SourceStats.DuplicatesRemoved)
}

func TestDedupFallsBackToText(t *testing.T) {
	b := New(nil, WithScorer(fixedScorer{"same": 50}))
	r := b.Build(Input{Candidates: []AdapterResult{video(cand("", "same"), cand("", "same"))}})
	assert.Len(t, r.Quotes, 1)
}

func TestThresholdEnforced(t *testing.T) {
	b := New(nil, WithScorer(fixedScorer{"low": 39, "edge": 40, "zero": 0}))
	r := b.Build(Input{Candidates: []AdapterResult{video(cand("1", "low"), cand("2", "edge"), cand("3", "zero"))}})

	require.Len(t, r.Quotes, 1)
	for _, q := range r.Quotes {
		assert.GreaterOrEqual(t, q.RelevanceScore, model.AcceptanceThreshold)
	}
	assert.Equal(t, 2, r.SourceStats.DroppedBelowThreshold)
	assert.Equal(t, 3, r.SourceStats.CandidatesFound)
}

func TestTruncation(t *testing.T) {
	scores := fixedScorer{}
	var cands []model.Candidate
	for i := 0; i < 25; i++ {
		text := fmt.Sprintf("text %d", i)
		scores[text] = 50
		cands = append(cands, cand(fmt.Sprint(i), text))
	}
	b := New(nil, WithScorer(scores))

	assert.Len(t, b.Build(Input{Candidates: []AdapterResult{video(cands...)}}).Quotes, DefaultRequestedCount)
	r := b.Build(Input{Candidates: []AdapterResult{video(cands...)}, RequestedCount: 3})
	assert.Equal(t, []string{"0", "1", "2"}, ids(r.Quotes))
}

func TestTotalDegradation(t *testing.T) {
	r := New(nil).Build(Input{
		Queries:             []string{"small business struggles", "customer pain points"},
		QueriesFromFallback: true,
		Candidates: []AdapterResult{
			{Source: model.SourceVideoComment, Outcome: model.Outcome[[]model.Candidate]{Status: model.OutcomeFailed, Reason: "quota exceeded"}},
			{Source: model.SourceDiscussion, Outcome: model.Outcome[[]model.Candidate]{Status: model.OutcomeUnavailable, Reason: "not configured"}},
		},
		Sentiment: model.Outcome[model.SentimentAggregate]{Status: model.OutcomeFailed, Reason: "timeout"},
	})

	require.NotNil(t, r.Quotes)
	assert.Empty(t, r.Quotes)
	assert.Equal(t, 0, r.SourceStats.TotalQuotes)
	assert.Equal(t, model.StatusEmpty, r.Status)
	assert.Equal(t, 0, r.Sentiment.PainIntensity)
	assert.Equal(t, model.UrgencyLow, r.Sentiment.Urgency)
	assert.Equal(t, 0, r.Sentiment.AverageScore)
	assert.NotNil(t, r.Sentiment.TopEmotions)
	assert.Contains(t, r.Reasoning, NoDataMarker)
	assert.Contains(t, r.Reasoning, "video-comment failed (quota exceeded)")
	assert.Contains(t, r.Reasoning, "discussion unavailable")
	assert.Contains(t, r.Reasoning, "Sentiment analysis failed (timeout)")
	assert.Contains(t, r.Reasoning, "generated queries were unavailable")
	assert.Len(t, r.SourceStats.Adapters, 3)
}

func TestOffTopicIsDistinguished(t *testing.T) {
	b := New(nil, WithScorer(fixedScorer{"spam": 5, "meh": 20}))
	r := b.Build(Input{Queries: []string{"q"}, Candidates: []AdapterResult{video(cand("1", "spam"), cand("2", "meh"))}})

	assert.Empty(t, r.Quotes)
	assert.Equal(t, model.StatusOffTopic, r.Status)
	assert.Contains(t, r.Reasoning, NoDataMarker+": all 2 candidates scored below the relevance threshold of 40")
}

func TestFreelanceScenario(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := New(nil, WithClock(func() time.Time { return now })).Build(Input{
		Queries:        []string{"freelance designer burnout"},
		Candidates:     []AdapterResult{video(cand("yt:c1", "I'm so burned out juggling clients, it's exhausting"))},
		Sentiment:      model.Outcome[model.SentimentAggregate]{Status: model.OutcomeEmpty},
		Profile:        freelanceProfile,
		RequestedCount: 10,
	})

	require.Len(t, r.Quotes, 1)
	q := r.Quotes[0]
	assert.GreaterOrEqual(t, q.RelevanceScore, 66)
	assert.Contains(t, []model.Emotion{model.EmotionSupported, model.EmotionSuccessful}, q.EmotionalTone)
	assert.Equal(t, 1, r.SourceStats.RealQuotes)
	assert.Equal(t, 0, r.SourceStats.AIGeneratedQuotes)
	assert.Equal(t, 1, r.SourceStats.BySource[model.SourceVideoComment])
	assert.Equal(t, model.StatusAligned, r.Status)
	assert.Equal(t, now, r.GeneratedAt)

	// "burned out" and "exhausting" are two frustration hits
	assert.Equal(t, 6, r.Sentiment.PainIntensity)
	assert.Equal(t, model.UrgencyMedium, r.Sentiment.Urgency)
	assert.Equal(t, q.RelevanceScore, r.Sentiment.AverageScore)
	assert.Equal(t, []string{"exhausting", "burned"}, r.LanguagePatterns.EmotionalTriggers)
	assert.Contains(t, r.Reasoning, "Low data warning")
	assert.Contains(t, r.Reasoning, "video-comment found 1, 1 passed")
}

func TestSentimentBlend(t *testing.T) {
	in := Input{
		Candidates: []AdapterResult{video(cand("yt:c1", "I'm so burned out juggling clients, it's exhausting"))},
		Sentiment: model.Outcome[model.SentimentAggregate]{Status: model.OutcomeOK, Value: model.SentimentAggregate{
			Analyzed: true, PostCount: 40, Tier: model.SentimentNegative, ThemeWords: []string{"late", "burned"},
		}},
		Profile: freelanceProfile,
	}
	r := New(nil).Build(in)

	assert.Equal(t, []string{"late", "burned", "exhausting"}, r.LanguagePatterns.EmotionalTriggers)
	assert.Equal(t, 7, r.Sentiment.PainIntensity)
	assert.Equal(t, 40, r.SourceStats.SentimentPosts)
	assert.Contains(t, r.Reasoning, "Sentiment analysis covered 40 discussion posts (overall negative)")
}

func TestSentimentOnlyRun(t *testing.T) {
	r := New(nil).Build(Input{
		Sentiment: model.Outcome[model.SentimentAggregate]{Status: model.OutcomeOK, Value: model.SentimentAggregate{
			Analyzed: true, PostCount: 3, Tier: model.SentimentMixed,
		}},
	})
	assert.Empty(t, r.Quotes)
	assert.Equal(t, 5, r.Sentiment.PainIntensity)
	assert.Equal(t, model.StatusEmpty, r.Status)
}

func TestPainIntensityCapped(t *testing.T) {
	text := "frustrated frustrated frustrated frustrated hopeless hopeless hopeless stuck stuck stuck stuck burnout burnout"
	r := New(nil, WithScorer(fixedScorer{text: 90})).Build(Input{
		Candidates: []AdapterResult{video(cand("1", text))},
		Sentiment:  model.Outcome[model.SentimentAggregate]{Status: model.OutcomeOK, Value: model.SentimentAggregate{Analyzed: true, PostCount: 1, Tier: model.SentimentNegative}},
	})
	assert.Equal(t, 10, r.Sentiment.PainIntensity)
	assert.Equal(t, model.UrgencyHigh, r.Sentiment.Urgency)
}

func TestTopEmotions(t *testing.T) {
	texts := map[string]model.Emotion{
		"a": model.EmotionSharing, "b": model.EmotionSafe, "c": model.EmotionSupported,
		"d": model.EmotionSafe, "e": model.EmotionSupported, "f": model.EmotionSignificance,
	}
	scores := fixedScorer{}
	var cands []model.Candidate
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		scores[id] = 50
		cands = append(cands, cand(id, id))
	}
	r := New(nil, WithScorer(scores), WithClassifier(fixedClassifier(texts))).Build(Input{Candidates: []AdapterResult{video(cands...)}})

	assert.Equal(t, []model.Emotion{model.EmotionSafe, model.EmotionSupported, model.EmotionSignificance}, r.Sentiment.TopEmotions)
}

func TestLanguagePatterns(t *testing.T) {
	texts := []string{
		"Late invoices again. I tried everything but it's too expensive to hire help",
		"Chasing late invoices is exhausting and too expensive",
		"late invoices make me stressed",
	}
	scores := fixedScorer{}
	var cands []model.Candidate
	for i, text := range texts {
		scores[text] = 60
		cands = append(cands, cand(fmt.Sprint(i), text))
	}
	r := New(nil, WithScorer(scores)).Build(Input{Candidates: []AdapterResult{video(cands...)}})

	require.NotEmpty(t, r.LanguagePatterns.CommonPhrases)
	assert.Equal(t, "late invoices", r.LanguagePatterns.CommonPhrases[0])
	assert.Equal(t, []string{"too expensive", "tried everything"}, r.LanguagePatterns.Objections)
	assert.ElementsMatch(t, []string{"exhausting", "stressed"}, r.LanguagePatterns.EmotionalTriggers)
}

func TestProvenanceCountsUnmarkedQuotes(t *testing.T) {
	b := New(nil, WithScorer(fixedScorer{"real": 60, "placeholder": 60}))
	placeholder := cand("p", "placeholder")
	placeholder.IsRealQuote = false
	discussion := AdapterResult{Source: model.SourceDiscussion, Outcome: model.Outcome[[]model.Candidate]{Status: model.OutcomeEmpty, Value: []model.Candidate{}}}

	r := b.Build(Input{Candidates: []AdapterResult{video(cand("r", "real"), placeholder), discussion}})

	assert.Equal(t, 2, r.SourceStats.TotalQuotes)
	assert.Equal(t, 1, r.SourceStats.RealQuotes)
	assert.Equal(t, 1, r.SourceStats.AIGeneratedQuotes)
	assert.Equal(t, map[model.Source]int{model.SourceVideoComment: 2, model.SourceDiscussion: 0}, r.SourceStats.BySource)
}
