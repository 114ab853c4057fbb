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

// Package quota throttles outbound calls to a remote api so that they stay
// under a per-minute and a per-day ceiling.
package quota

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/referee/pkg/internal/util"
)

const (
	DefaultPerMinute = 6
	DefaultPerDay    = 800
	DefaultGrace     = 5 * time.Second
)

// Config holds the capacities of a Governor.
type Config struct {
	PerMinute int           `yaml:"per-minute"`
	PerDay    int           `yaml:"per-day"`
	Grace     time.Duration `yaml:"grace"`
}

// Governor tracks the calls made in the last minute and the last day and
// blocks callers until a call can be made without exceeding either limit.
// A single Governor should be shared by everything calling the same api.
type Governor struct {
	config Config

	// Now and Sleep are the clock used by the governor. Sleep must block
	// for the given duration or until the context is done.
	Now   func() time.Time
	Sleep func(context.Context, time.Duration) error

	mu     sync.Mutex
	minute []time.Time
	day    []time.Time
}

// New creates a Governor with the given capacities. Zero values are
// replaced with the defaults.
func New(config Config) *Governor {
	if config.PerMinute <= 0 {
		config.PerMinute = DefaultPerMinute
	}

	if config.PerDay <= 0 {
		config.PerDay = DefaultPerDay
	}

	if config.Grace < 0 {
		config.Grace = 0
	}

	return &Governor{
		config: config,
		Now:    time.Now,
		Sleep:  util.Sleep,
	}
}

// Acquire blocks until a call may be made and then records it. The only
// error returned is the context's, if it is done while waiting.
func (g *Governor) Acquire(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.Now()
	for {
		g.prune(now)

		var wait time.Duration
		switch {
		case len(g.day) >= g.config.PerDay:
			wait = untilMidnight(now)
			if expiry := g.day[0].Add(24 * time.Hour).Sub(now); expiry > wait {
				wait = expiry
			}

			logrus.Warnf("Daily quota of %d calls exceeded.", g.config.PerDay)
			logrus.Warnf("Waiting until %s (%.1f hours)", now.Add(wait).Format("2006-01-02 15:04:05"), wait.Hours())

		case len(g.minute) >= g.config.PerMinute:
			wait = time.Minute - now.Sub(g.minute[0]) + g.config.Grace
			logrus.Warnf("Rate limit reached (%d/%d calls per minute).", len(g.minute), g.config.PerMinute)
			logrus.Warnf("Waiting %.1f seconds...", wait.Seconds())
		}

		if wait <= 0 {
			break
		}

		if err := g.Sleep(ctx, wait); err != nil {
			return err
		}

		now = g.Now()
	}

	g.minute = append(g.minute, now)
	g.day = append(g.day, now)

	if len(g.minute)%2 == 1 {
		logrus.Infof(
			"API usage: %d/%d this minute, %d/%d today",
			len(g.minute), g.config.PerMinute,
			len(g.day), g.config.PerDay,
		)
	}

	return nil
}

// Usage returns the number of calls recorded in the current minute and
// day windows.
func (g *Governor) Usage() (minute int, day int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(g.Now())
	return len(g.minute), len(g.day)
}

// prune drops the calls which have fallen out of their windows. Both
// windows roll, so a new calendar day by itself frees nothing.
func (g *Governor) prune(now time.Time) {
	g.minute = dropBefore(g.minute, now.Add(-time.Minute))
	g.day = dropBefore(g.day, now.Add(-24*time.Hour))
}

// dropBefore removes the leading calls made at or before cutoff. calls is
// always sorted since calls are only ever appended with the current time.
func dropBefore(calls []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(calls) && !calls[i].After(cutoff) {
		i++
	}

	return calls[i:]
}

func untilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return tomorrow.Sub(now)
}
