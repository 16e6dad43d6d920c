package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubReporter struct {
	calls int
	err   error
}

func (r *stubReporter) RunDaily(context.Context) error {
	r.calls++
	return r.err
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler("every evening", time.UTC, &stubReporter{}, nil)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler("0 21 * * *", time.FixedZone("IST", 19800), &stubReporter{}, nil)
	assert.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}

func TestDailySummaryJobLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reporter := &stubReporter{err: errors.New("mongo down")}
	s := NewScheduler("0 21 * * *", time.UTC, reporter, zap.New(core))

	s.sendDailySummary()

	assert.Equal(t, 1, reporter.calls)
	assert.Equal(t, 1, logs.FilterMessage("daily summary failed").Len())
}
