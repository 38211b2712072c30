package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurisnorm/jurisnorm/cluster"
	"github.com/jurisnorm/jurisnorm/core"
)

func TestNewRunnerRequiresAnalyzer(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, ErrAnalyzerRequired)
}

func TestRunnerDeliversLatest(t *testing.T) {
	analyzer, err := NewAnalyzer(descritoresCatalog(), core.DefaultFields())
	require.NoError(t, err)

	runner, err := NewRunner(analyzer)
	require.NoError(t, err)
	defer runner.Release()

	done := make(chan *Report, 1)
	err = runner.Submit(context.Background(), Request{
		Field:  "Descritores",
		Config: cluster.DefaultConfig(),
	}, func(report *Report, err error) {
		require.NoError(t, err)
		done <- report
	})
	require.NoError(t, err)

	select {
	case report := <-done:
		assert.Equal(t, "Descritores", report.Field)
		assert.Len(t, report.Clusters, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("analysis did not finish")
	}
}

func TestRunnerSuppressesSupersededCallbacks(t *testing.T) {
	catalog := descritoresCatalog()
	catalog.block = make(chan struct{})

	analyzer, err := NewAnalyzer(catalog, core.DefaultFields())
	require.NoError(t, err)

	runner, err := NewRunner(analyzer)
	require.NoError(t, err)
	defer runner.Release()

	var mu sync.Mutex
	var delivered []int
	done := make(chan struct{}, 2)

	submit := func(n int) {
		err := runner.Submit(context.Background(), Request{
			Field:  "Descritores",
			Config: cluster.DefaultConfig(),
		}, func(report *Report, err error) {
			mu.Lock()
			delivered = append(delivered, n)
			mu.Unlock()
			done <- struct{}{}
		})
		require.NoError(t, err)
	}

	// The first analysis blocks in the catalog; the second supersedes it
	submit(1)
	submit(2)

	// Unblock both fetches
	close(catalog.block)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("analysis did not finish")
	}

	// Give a wrongly-delivered first callback a chance to land
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
	assert.Equal(t, 2, delivered[0])
}

func TestRunnerCancelsSupersededContext(t *testing.T) {
	catalog := descritoresCatalog()
	catalog.block = make(chan struct{}) // never closed

	analyzer, err := NewAnalyzer(catalog, core.DefaultFields())
	require.NoError(t, err)

	runner, err := NewRunner(analyzer)
	require.NoError(t, err)
	defer runner.Release()

	err = runner.Submit(context.Background(), Request{
		Field:  "Descritores",
		Config: cluster.DefaultConfig(),
	}, func(report *Report, err error) {
		t.Error("superseded callback fired")
	})
	require.NoError(t, err)

	// The second submission cancels the first run's context, which
	// unblocks the stub catalog without it ever producing terms
	finished := make(chan struct{}, 1)
	err = runner.Submit(context.Background(), Request{
		Field:  "Descritores",
		Config: cluster.DefaultConfig(),
	}, func(report *Report, err error) {
		finished <- struct{}{}
	})
	require.NoError(t, err)

	// Let only the second run through the stub's gate
	catalog.block <- struct{}{}

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("latest analysis did not finish")
	}
}
