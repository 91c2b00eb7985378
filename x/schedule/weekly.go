// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package schedule

import (
	"fmt"
	"time"

	"github.com/moov-io/base"

	"github.com/robfig/cron/v3"
)

// WeeklyTimes is a time.Ticker which fires once a week at a configured
// weekday and wall clock time to trigger a savings run.
//
// Ticks landing on a federal holiday are skipped.
type WeeklyTimes struct {
	C chan time.Time

	sched *cron.Cron
}

func ForWeeklyTimes(tz string, day time.Weekday, timestamp string) (*WeeklyTimes, error) {
	wt := &WeeklyTimes{
		C:     make(chan time.Time, 1),
		sched: cron.New(),
	}
	if err := wt.register(tz, day, timestamp); err != nil {
		return nil, err
	}
	wt.sched.Start()
	return wt, nil
}

// Stop halts the scheduler, waits for an in-flight tick to finish, and then
// closes C so receivers observe shutdown.
func (wt *WeeklyTimes) Stop() {
	if wt == nil {
		return
	}
	if wt.sched != nil {
		<-wt.sched.Stop().Done()
	}
	if wt.C != nil {
		close(wt.C)
	}
}

func (wt *WeeklyTimes) maybeTick(location *time.Location) {
	now := base.Now(location)
	if !now.IsWeekend() && !now.IsBankingDay() {
		return // skip holidays, the next weekly tick picks up the surplus
	}
	select {
	case wt.C <- now.Time:
	default:
		// a previous tick hasn't been consumed yet
	}
}

func (wt *WeeklyTimes) register(tz string, day time.Weekday, timestamp string) error {
	when, err := time.Parse("15:04", timestamp)
	if err != nil {
		return fmt.Errorf("failed to parse '%s' error=%v", timestamp, err)
	}

	var zone string
	var location *time.Location
	if tz != "" {
		zone = fmt.Sprintf("CRON_TZ=%s", tz)
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("timezone=%s error=%v", tz, err)
		}
		location = l
	} else {
		location = time.UTC
	}
	schedule := fmt.Sprintf(`%s %d %d * * %d`, zone, when.Minute(), when.Hour(), int(day))
	if _, err := wt.sched.AddFunc(schedule, func() {
		wt.maybeTick(location)
	}); err != nil {
		return fmt.Errorf("schedule=%q error=%v", schedule, err)
	}

	return nil
}
