package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRunner_NowRunsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, nil)
	var n atomic.Int32
	r.Now(time.Hour, "immediate", func(context.Context) error { n.Add(1); return nil })

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	r.Wait()
}

func TestRunner_EveryTicksAndCountsErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, nil)
	var n atomic.Int32
	before := testutil.ToFloat64(jobErrors.WithLabelValues("flaky"))
	r.Every(5*time.Millisecond, "flaky", func(context.Context) error {
		n.Add(1)
		return errors.New("nope")
	})

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	r.Wait()
	assert.GreaterOrEqual(t, testutil.ToFloat64(jobErrors.WithLabelValues("flaky"))-before, 3.0)
}

func TestRunner_DisabledInterval(t *testing.T) {
	r := New(context.Background(), nil)
	called := false
	r.Every(0, "off", func(context.Context) error { called = true; return nil })
	r.Wait()
	assert.False(t, called)
}
