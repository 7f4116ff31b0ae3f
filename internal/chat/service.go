package chat

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nickaggarwal/git-timeline-analysis/internal/llm"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// Runner executes a read query against the graph store. Satisfied by
// graph.Client; tests substitute a fake.
type Runner interface {
	Read(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Service answers natural-language questions about an analyzed codebase
// with one linear pass: keyword extraction, query selection, execution,
// context assembly, response composition. No retries, no loops.
type Service struct {
	runner    Runner
	completer llm.Completer
	logger    *logrus.Logger
}

// NewService creates a chat service. completer may be nil; answers then
// degrade to the assembled context.
func NewService(runner Runner, completer llm.Completer, logger *logrus.Logger) *Service {
	return &Service{runner: runner, completer: completer, logger: logger}
}

// Cap on the flattened result rows returned as provenance.
const relevantNodeLimit = 10

// Ask runs the full question-answering pass. It never returns an error
// for "no data found": the response text explains instead. Only a failed
// graph-store boundary would surface through the individual queries, and
// those degrade to empty result sets.
func (s *Service) Ask(ctx context.Context, codebaseID, question string, history []models.ChatMessage) (models.ChatResult, error) {
	s.logger.WithFields(logrus.Fields{
		"codebase": codebaseID,
		"question": truncate(question, 100),
	}).Info("Processing chat question")

	keywords := ExtractKeywords(question)
	queries := PlanQueries(codebaseID, keywords)
	s.logger.WithFields(logrus.Fields{
		"queries":      len(queries),
		"search_terms": len(keywords.SearchTerms),
	}).Debug("Planned context queries")

	results := s.execute(ctx, queries)

	contextText := FormatContext(results)
	response := ComposeResponse(ctx, s.completer, question, contextText, history)

	result := models.ChatResult{
		Response: response,
		Context:  contextText,
	}
	for _, query := range queries {
		result.QueriesUsed = append(result.QueriesUsed, query.Cypher)
		for _, row := range results[query.Name] {
			if len(result.RelevantNodes) >= relevantNodeLimit {
				break
			}
			result.RelevantNodes = append(result.RelevantNodes, models.ContextNode{
				QueryName: query.Name,
				Data:      row,
			})
		}
	}

	return result, nil
}

// execute runs each planned query. A failing query logs the error and
// yields an empty result set without aborting the others.
func (s *Service) execute(ctx context.Context, queries []Query) map[string][]map[string]any {
	results := make(map[string][]map[string]any, len(queries))
	for _, query := range queries {
		rows, err := s.runner.Read(ctx, query.Cypher, query.Params)
		if err != nil {
			s.logger.WithError(err).WithField("query", query.Name).Error("Context query failed")
			results[query.Name] = nil
			continue
		}
		results[query.Name] = rows
		s.logger.WithFields(logrus.Fields{
			"query": query.Name,
			"rows":  len(rows),
		}).Debug("Context query finished")
	}
	return results
}

// truncate cuts s to at most n runes, never splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
