package runner

import (
	"context"
	"io"
	"strings"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/pkg/domain"
)

// Collector keeps a copy of every line record, and the end-of-stream record apart.
type Collector struct {
	Records []domain.LineRecord
	Final   *domain.LineRecord
}

func (c *Collector) Output(ctx context.Context, res tinysplit.Result) error {
	rec := res.Record()
	if res.End {
		c.Final = &rec
		return nil
	}
	c.Records = append(c.Records, rec)
	return nil
}

// Collect runs text through a fresh session and returns every record plus the
// end-of-stream record.
func Collect(ctx context.Context, in io.Reader, opts ...Option) ([]domain.LineRecord, *domain.LineRecord, error) {
	c := &Collector{}
	r := NewRunner(append(opts, WithHandler(c))...)
	if err := r.Run(ctx, in); err != nil {
		return c.Records, c.Final, err
	}
	return c.Records, c.Final, nil
}

// CollectString is Collect over a string.
func CollectString(ctx context.Context, text string, opts ...Option) ([]domain.LineRecord, *domain.LineRecord, error) {
	return Collect(ctx, strings.NewReader(text), opts...)
}

// SplitLines breaks text into lines the way Run reads them: "\n" and "\r\n"
// terminators are removed and a final terminator does not start a new line.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
