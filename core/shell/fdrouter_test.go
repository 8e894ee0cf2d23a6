package shell

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conchsh/conch/core/chain"
)

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error { return nil }

func TestRouteIOSwapsAndRestores(t *testing.T) {
	ts := newTestSession(t)

	origIn, origOut, origErr := ts.Stdin(), ts.Stdout(), ts.Stderr()

	stageOut := &bufferCloser{}
	stageErr := &bufferCloser{}
	sc := stage("any")
	sc.Stdout = stageOut
	sc.Stderr = stageErr

	restore := ts.routeIO(sc)
	assert.Same(t, io.Writer(stageOut), ts.Stdout())
	assert.Same(t, io.Writer(stageErr), ts.Stderr())
	assert.Equal(t, origIn, ts.Stdin(), "stdin has no override and stays put")

	restore()
	assert.Equal(t, origIn, ts.Stdin())
	assert.Equal(t, origOut, ts.Stdout())
	assert.Equal(t, origErr, ts.Stderr())
}

func TestRouteIOWithoutOverridesIsANoOp(t *testing.T) {
	ts := newTestSession(t)

	origOut := ts.Stdout()
	restore := ts.routeIO(stage("any"))
	assert.Equal(t, origOut, ts.Stdout())
	restore()
	assert.Equal(t, origOut, ts.Stdout())
}

func TestRouteIORestoresOnBuiltinError(t *testing.T) {
	ts := newTestSession(t)
	origErr := ts.Stderr()

	redirected := &bufferCloser{}
	sc := chain.NewSimpleCommand()
	sc.PushArg("pwd")
	sc.PushArg("extra")
	sc.Stdout = redirected

	assert.Equal(t, 1, Pwd(ts.Session, sc))
	assert.Equal(t, origErr, ts.Stderr())
	assert.Zero(t, redirected.Len())
}
