package usecase

import (
	"fmt"

	"go.uber.org/zap"
)

// trail collects one listing's narrative so it can be logged as a single
// entry once the listing is finished.
type trail struct {
	lines []string
}

func newTrail(link string) *trail {
	return &trail{lines: []string{"Processing link: " + link}}
}

func (t *trail) add(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *trail) field() zap.Field {
	return zap.Strings("trail", t.lines)
}
