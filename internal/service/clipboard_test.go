package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trip-planner/backend/internal/service"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestClipboardService_CopyAcknowledgesForTwoSeconds(t *testing.T) {
	clock := &fakeClock{t: fixedNow()}
	var got string
	svc := service.NewClipboardService(nil,
		service.WithClipboardWriter(func(s string) error { got = s; return nil }),
		service.WithClock(clock.Now))

	ack := svc.Copy(context.Background(), "https://trip.example.com/?sync=abc")

	assert.True(t, ack.Copied)
	assert.Equal(t, "https://trip.example.com/?sync=abc", got)
	assert.Equal(t, fixedNow().Add(2*time.Second), ack.Until)
	assert.True(t, svc.Status().Copied)

	clock.t = clock.t.Add(1999 * time.Millisecond)
	assert.True(t, svc.Status().Copied)
	clock.t = clock.t.Add(time.Millisecond)
	assert.False(t, svc.Status().Copied)
}

func TestClipboardService_FailureIsReported(t *testing.T) {
	svc := service.NewClipboardService(nil,
		service.WithClipboardWriter(func(string) error { return errors.New("no display") }))

	ack := svc.Copy(context.Background(), "x")

	assert.False(t, ack.Copied)
	assert.Equal(t, "no display", ack.Error)
	assert.False(t, svc.Status().Copied)
}
