package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockHonorsAsOf(t *testing.T) {
	pinned := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	ctx := WithAsOf(context.Background(), pinned)

	assert.True(t, SystemClock{}.Now(ctx).Equal(pinned))
	assert.WithinDuration(t, time.Now().UTC(), SystemClock{}.Now(context.Background()), time.Minute)
}

func TestFixed(t *testing.T) {
	pinned := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Fixed(pinned).Now(context.Background()).Equal(pinned))
}
