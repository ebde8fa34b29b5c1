package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestMustClose(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := logger.NewWithCore(core)

	ok := &closer{}
	assert.True(t, MustClose(ok, "store", log))
	assert.True(t, ok.closed)
	assert.Zero(t, logs.Len())

	bad := &closer{err: errors.New("pool busy")}
	assert.False(t, MustClose(bad, "store", log))
	assert.Equal(t, 1, logs.FilterField(logger.String("resource", "store")).Len())
}

func TestCloseIgnoresError(t *testing.T) {
	c := &closer{err: errors.New("ignored")}
	Close(c)
	assert.True(t, c.closed)
}
