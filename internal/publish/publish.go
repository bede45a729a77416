package publish

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ges-reports/gesreport/internal/model"
)

// Sink receives a finished report.
type Sink interface {
	Name() string
	Publish(ctx context.Context, rep *model.Report) error
}

// Checker is implemented by sinks with preconditions that can be verified
// before anything is written.
type Checker interface {
	Check(rep *model.Report) error
}

// PublishError reports which sink failed. The report itself is unaffected
// and may be published again.
type PublishError struct {
	Sink string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing to %s: %v", e.Sink, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Publisher writes a report to each sink in order.
type Publisher struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewPublisher creates a Publisher over sinks.
func NewPublisher(logger *zap.Logger, sinks ...Sink) *Publisher {
	return &Publisher{sinks: sinks, logger: logger}
}

// Publish checks every sink first, so a rejected report leaves no output
// behind. Writing stops at the first failing sink.
func (p *Publisher) Publish(ctx context.Context, rep *model.Report) error {
	for _, s := range p.sinks {
		if c, ok := s.(Checker); ok {
			if err := c.Check(rep); err != nil {
				return &PublishError{Sink: s.Name(), Err: err}
			}
		}
	}
	for _, s := range p.sinks {
		if err := s.Publish(ctx, rep); err != nil {
			return &PublishError{Sink: s.Name(), Err: err}
		}
		p.logger.Info("Report published", zap.String("sink", s.Name()), zap.Int("rows", len(rep.Rows)+1))
	}
	return nil
}
