package source

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func fixtureDataset() contracts.Dataset {
	return contracts.Dataset{
		Internet: []contracts.Observation{
			{Province: "Chaco", Year: 2023, Quarter: 1, Value: 40.0},
			{Province: "Chaco", Year: 2023, Quarter: 2, Value: 42.0},
			{Province: "CABA", Year: 2023, Quarter: 1, Value: 100.0},
			{Province: "CABA", Year: 2023, Quarter: 2, Value: 120.0},
		},
		Localities: []contracts.Locality{
			{ID: 1001, Name: "Salta", Province: "Salta", Fiber: true, Wireless: true, Population: 520000},
			{ID: 1002, Name: "Cafayate", Province: "Salta", Fiber: false, Wireless: true, Population: 14000},
			{ID: 1003, Name: "Tilcara", Province: "Jujuy", Fiber: false, Wireless: true, Population: 6000},
			{ID: 1004, Name: "Purmamarca", Province: "Jujuy", Fiber: false, Wireless: false, Population: 2000},
		},
		Mobile: []contracts.MobileAccess{
			{Year: 2024, Quarter: 1, Postpaid: 8398514, Prepaid: 52000000},
			{Year: 2024, Quarter: 2, Postpaid: 8397205, Prepaid: 51800000},
		},
	}
}

// stubSource serves fixed rows, optionally slowly or failing
type stubSource struct {
	ds    contracts.Dataset
	delay time.Duration
	err   error
	calls atomic.Int32
}

func (s *stubSource) wait(ctx context.Context) error {
	s.calls.Add(1)
	if s.err != nil {
		return s.err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Ping(ctx context.Context) error { return s.wait(ctx) }

func (s *stubSource) InternetPenetration(ctx context.Context) ([]contracts.Observation, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.ds.Internet, nil
}

func (s *stubSource) Localities(ctx context.Context) ([]contracts.Locality, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.ds.Localities, nil
}

func (s *stubSource) MobileAccesses(ctx context.Context) ([]contracts.MobileAccess, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.ds.Mobile, nil
}

var errConnRefused = errors.New("connection refused")
