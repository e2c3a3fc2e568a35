package ingredient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipeshare/internal/pkg/common"
)

// Service wraps the parser with the request-facing contract: the call is
// bounded by the request context and a parser failure surfaces as an error
// instead of taking the process down.
type Service struct {
	parser *Parser
}

// NewService creates a parsing service with unit normalization on, the
// behavior the API promises.
func NewService() *Service {
	return &Service{parser: NewParser(Options{NormalizeUOM: true})}
}

// Parse parses free-form ingredient text. The text goes to the parser as
// one unit; segmenting lines is the parser's job.
func (s *Service) Parse(ctx context.Context, text string) ([]Entry, error) {
	type result struct {
		entries []Entry
		err     error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				common.LogError("ingredient parser panicked", zap.Any("panic", r))
				done <- result{err: fmt.Errorf("parser panic: %v", r)}
			}
		}()
		done <- result{entries: s.parser.Parse(text)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.entries, res.err
	}
}
