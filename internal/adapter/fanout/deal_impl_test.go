package fanout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/resale-arbitrage/internal/entity"
)

type recordingSink struct {
	saved []string
	err   error
}

func (s *recordingSink) Save(_ context.Context, d *entity.Deal) error {
	s.saved = append(s.saved, d.ID)
	return s.err
}

func TestSaveReachesEverySink(t *testing.T) {
	errDown := errors.New("db down")
	failing := &recordingSink{err: errDown}
	ok := &recordingSink{}

	repo := NewDealRepo(failing, nil, ok)
	err := repo.Save(context.Background(), &entity.Deal{ID: "d1"})

	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, []string{"d1"}, failing.saved)
	assert.Equal(t, []string{"d1"}, ok.saved)
}
