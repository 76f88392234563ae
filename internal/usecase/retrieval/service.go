package retrieval

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/domain"
	"github.com/kalder-cloud/reagent/internal/logger"
	"github.com/kalder-cloud/reagent/internal/metrics"
)

// DefaultTopK is the result count used when the caller does not specify k.
const DefaultTopK = 3

// Service ranks corpus documents against free-text queries with TF-IDF
// weights and cosine similarity. Term statistics are re-derived from the
// full corpus on every call; there is no persisted index, so results always
// reflect the corpus as loaded.
type Service struct {
	corpus []domain.Document
}

// New creates a retrieval service over an immutable corpus. The service
// never mutates the corpus and is safe to share across concurrent runs.
func New(corpus []domain.Document) *Service {
	return &Service{corpus: corpus}
}

// CorpusSize returns the number of documents in the corpus.
func (s *Service) CorpusSize() int { return len(s.corpus) }

// Search returns at most k results ranked by descending cosine score.
// Ties break toward the larger document index, preserving the ranking
// order of previously recorded runs. An empty corpus yields no results.
func (s *Service) Search(ctx context.Context, query string, k int) []domain.SearchResult {
	if k <= 0 {
		k = DefaultTopK
	}
	start := time.Now()

	docTokens := make([][]string, len(s.corpus))
	for i := range s.corpus {
		docTokens[i] = s.corpus[i].Tokens()
	}
	df := docFreq(docTokens)
	idf := inverseDocFreq(df, len(s.corpus))

	queryVec := tfidfVector(tokenize(query), idf)

	type scored struct {
		score float64
		index int
	}
	ranked := make([]scored, len(s.corpus))
	for i, tokens := range docTokens {
		ranked[i] = scored{score: cosine(queryVec, tfidfVector(tokens, idf)), index: i}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].index > ranked[j].index
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	results := make([]domain.SearchResult, len(ranked))
	for i, r := range ranked {
		doc := &s.corpus[r.index]
		results[i] = domain.SearchResult{
			ID:      doc.ID(),
			Score:   r.score,
			Snippet: doc.Snippet(),
		}
	}

	metrics.SearchRequestsTotal.Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Debug("corpus search",
		zap.String("query", query),
		zap.Int("k", k),
		zap.Int("results", len(results)),
	)

	return results
}
