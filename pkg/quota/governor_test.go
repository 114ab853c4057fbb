// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quota

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (clock *fakeClock) Now() time.Time {
	return clock.now
}

func (clock *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clock.slept = append(clock.slept, d)
	clock.now = clock.now.Add(d)
	return nil
}

func newGovernor(config Config, start time.Time) (*Governor, *fakeClock) {
	clock := &fakeClock{now: start}
	governor := New(config)
	governor.Now = clock.Now
	governor.Sleep = clock.Sleep
	return governor, clock
}

func TestNewAppliesDefaults(t *testing.T) {
	governor := New(Config{})
	assert.Equal(t, DefaultPerMinute, governor.config.PerMinute)
	assert.Equal(t, DefaultPerDay, governor.config.PerDay)
}

func TestAcquireWithinCapacityDoesNotSleep(t *testing.T) {
	governor, clock := newGovernor(Config{PerMinute: 6, PerDay: 800, Grace: 5 * time.Second}, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 6; i++ {
		require.NoError(t, governor.Acquire(context.Background()))
	}

	assert.Empty(t, clock.slept)

	minute, day := governor.Usage()
	assert.Equal(t, 6, minute)
	assert.Equal(t, 6, day)
}

func TestAcquireWaitsForMinuteWindow(t *testing.T) {
	start := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	governor, clock := newGovernor(Config{PerMinute: 6, PerDay: 800, Grace: 5 * time.Second}, start)

	for i := 0; i < 6; i++ {
		require.NoError(t, governor.Acquire(context.Background()))
	}

	clock.now = start.Add(20 * time.Second)
	require.NoError(t, governor.Acquire(context.Background()))

	// 60s - (20s since the oldest call) + 5s of grace.
	assert.Equal(t, []time.Duration{45 * time.Second}, clock.slept)

	minute, day := governor.Usage()
	assert.Equal(t, 1, minute)
	assert.Equal(t, 7, day)
}

func TestDailyCallsOutliveMidnight(t *testing.T) {
	late := time.Date(2024, 3, 10, 23, 50, 0, 0, time.UTC)
	governor, clock := newGovernor(Config{PerMinute: 100, PerDay: 3}, late)

	for i := 0; i < 3; i++ {
		require.NoError(t, governor.Acquire(context.Background()))
	}

	clock.now = time.Date(2024, 3, 11, 0, 10, 0, 0, time.UTC)
	_, day := governor.Usage()
	assert.Equal(t, 3, day)

	require.NoError(t, governor.Acquire(context.Background()))
	assert.Equal(t, []time.Duration{23*time.Hour + 50*time.Minute}, clock.slept)

	_, day = governor.Usage()
	assert.Equal(t, 1, day)
}

func TestAcquireWaitsUntilMidnightWhenDailyQuotaIsSpent(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	governor, clock := newGovernor(Config{PerMinute: 100, PerDay: 3}, day1)

	require.NoError(t, governor.Acquire(context.Background()))

	clock.now = time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC)
	require.NoError(t, governor.Acquire(context.Background()))
	require.NoError(t, governor.Acquire(context.Background()))
	assert.Empty(t, clock.slept)

	require.NoError(t, governor.Acquire(context.Background()))
	assert.Equal(t, []time.Duration{4 * time.Hour}, clock.slept)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), clock.now)
}

func TestAcquireWaitsForOldestDailyCall(t *testing.T) {
	start := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	governor, clock := newGovernor(Config{PerMinute: 100, PerDay: 2}, start)

	require.NoError(t, governor.Acquire(context.Background()))
	clock.now = time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	require.NoError(t, governor.Acquire(context.Background()))

	require.NoError(t, governor.Acquire(context.Background()))
	assert.Equal(t, []time.Duration{2 * time.Hour}, clock.slept)
}

func TestAcquireStopsWhenContextIsDone(t *testing.T) {
	governor, _ := newGovernor(Config{PerMinute: 1, PerDay: 10}, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	require.NoError(t, governor.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, governor.Acquire(ctx), context.Canceled)

	minute, day := governor.Usage()
	assert.Equal(t, 1, minute)
	assert.Equal(t, 1, day)
}

// countWithin returns the number of calls in the window (at-width, at].
func countWithin(calls []time.Time, at time.Time, width time.Duration) int {
	count := 0
	for _, call := range calls {
		if call.After(at.Add(-width)) && !call.After(at) {
			count++
		}
	}

	return count
}

func TestAcquireNeverExceedsCapacity(t *testing.T) {
	gaps := []time.Duration{
		0, 0, time.Second, 3 * time.Second, 10 * time.Second,
		30 * time.Second, 59 * time.Second, 2 * time.Minute,
		45 * time.Minute, 5 * time.Hour, 23 * time.Hour,
	}

	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		config := Config{
			PerMinute: 1 + rng.Intn(6),
			PerDay:    5 + rng.Intn(20),
			Grace:     time.Duration(rng.Intn(6)) * time.Second,
		}

		start := time.Date(2024, 3, 10, rng.Intn(24), rng.Intn(60), 0, 0, time.Local)
		governor, clock := newGovernor(config, start)

		var calls []time.Time
		for i := 0; i < 300; i++ {
			clock.now = clock.now.Add(gaps[rng.Intn(len(gaps))])
			require.NoError(t, governor.Acquire(context.Background()))

			at := clock.now
			if len(calls) > 0 {
				require.False(t, at.Before(calls[len(calls)-1]), "seed %d: time went backwards", seed)
			}
			calls = append(calls, at)

			require.LessOrEqual(t, countWithin(calls, at, time.Minute), config.PerMinute, "seed %d call %d", seed, i)
			require.LessOrEqual(t, countWithin(calls, at, 24*time.Hour), config.PerDay, "seed %d call %d", seed, i)
		}
	}
}
