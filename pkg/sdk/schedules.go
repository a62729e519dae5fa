package sdk

import (
	"context"
	"fmt"
)

func (c *Client) ListSchedules(ctx context.Context) ([]Schedule, error) {
	var schedules []Schedule
	err := c.get(ctx, "/schedules", &schedules)
	return schedules, err
}

func (c *Client) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	var s Schedule
	if err := c.get(ctx, "/schedules/"+escape(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateSchedule(ctx context.Context, s Schedule) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, "/schedules", s, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, s Schedule) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.put(ctx, "/schedules/"+escape(s.ID), s, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.delete(ctx, "/schedules/"+escape(id), nil)
}

func (c *Client) GetScheduleHistory(ctx context.Context, id string) ([]ScheduleRun, error) {
	var runs []ScheduleRun
	err := c.get(ctx, fmt.Sprintf("/schedules/%s/history", escape(id)), &runs)
	return runs, err
}
