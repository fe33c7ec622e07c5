package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingSource holds FetchHosts until release is closed.
type blockingSource struct {
	*MemorySource
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSource) FetchHosts(ctx context.Context, activeOnly bool) ([]map[string]any, error) {
	if b.calls.Add(1) == 1 {
		close(b.entered)
	}
	<-b.release
	return b.MemorySource.FetchHosts(ctx, activeOnly)
}

func TestRunner_CollapsesConcurrentRuns(t *testing.T) {
	src := &blockingSource{
		MemorySource: scenarioSource(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	runner := NewRunner(newTestEngine(src), defaultConfig(), zap.NewNop())

	first := make(chan *Result, 1)
	go func() {
		res, err := runner.Run(context.Background())
		assert.NoError(t, err)
		first <- res
	}()
	<-src.entered

	var wg sync.WaitGroup
	results := make([]*Result, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := runner.Run(context.Background())
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	close(src.release)
	wg.Wait()
	leader := <-first

	// Late joiners either shared the leader's run or started after it finished
	assert.LessOrEqual(t, src.calls.Load(), int32(4))
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, leader.Graph.HostNames(), r.Graph.HostNames())
	}
}

func TestRunner_FreshRunAfterCompletion(t *testing.T) {
	runner := NewRunner(newTestEngine(scenarioSource()), defaultConfig(), zap.NewNop())

	a, err := runner.Run(context.Background())
	require.NoError(t, err)
	b, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.Report.RunID, b.Report.RunID)
	assert.NotSame(t, a.Graph, b.Graph)
}

func TestRunner_Hooks(t *testing.T) {
	var called []string
	hooks := []Hook{
		{Name: "audit", Fn: func(ctx context.Context, res *Result) error {
			called = append(called, "audit:"+res.Report.RunID)
			return nil
		}},
		{Name: "bus", Fn: func(ctx context.Context, res *Result) error {
			called = append(called, "bus")
			return errors.New("not connected")
		}},
	}
	runner := NewRunner(newTestEngine(scenarioSource()), defaultConfig(), zap.NewNop(), hooks...)

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"audit:" + res.Report.RunID, "bus"}, called)
}

func TestRunner_ErrorSkipsHooks(t *testing.T) {
	called := false
	hook := Hook{Name: "audit", Fn: func(context.Context, *Result) error {
		called = true
		return nil
	}}
	runner := NewRunner(newTestEngine(&MemorySource{Err: errors.New("down")}), defaultConfig(), zap.NewNop(), hook)

	_, err := runner.Run(context.Background())
	assert.Error(t, err)
	assert.False(t, called)
}
