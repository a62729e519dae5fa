package appstate

import (
	"context"

	"grafanapdf/pkg/sdk"
)

func (s *Store) FetchSchedules(ctx context.Context) {
	s.begin()
	defer s.end()

	schedules, err := s.gw.ListSchedules(ctx)
	if err != nil {
		_ = s.fail(err)
		return
	}
	s.update(func(st *State) { st.Schedules = schedules })
}

func (s *Store) SaveSchedule(ctx context.Context, sched sdk.Schedule) (*sdk.StatusResponse, error) {
	s.begin()
	defer s.end()

	var (
		resp *sdk.StatusResponse
		err  error
	)
	if sched.ID != "" {
		resp, err = s.gw.UpdateSchedule(ctx, sched)
	} else {
		resp, err = s.gw.CreateSchedule(ctx, sched)
	}
	if err != nil {
		return nil, s.fail(err)
	}
	return resp, nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	if err := s.gw.DeleteSchedule(ctx, id); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Store) FetchScheduleHistory(ctx context.Context, id string) ([]sdk.ScheduleRun, error) {
	s.begin()
	defer s.end()

	runs, err := s.gw.GetScheduleHistory(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return runs, nil
}
