package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"carrental/internal/store"
)

// JobService runs the scheduled overdue sweep. The sweep only reports: a
// rental past its end date keeps holding the car's availability flag until it
// is explicitly cancelled, and flipping the flag from a background job would
// break that contract.
type JobService struct {
	store store.Store
	log   *logrus.Logger
}

func NewJobService(st store.Store, log *logrus.Logger) *JobService {
	return &JobService{store: st, log: log}
}

func (s *JobService) ReportOverdueRentals(ctx context.Context) error {
	rentals, err := s.store.ListOverdueRentals(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error listing overdue rentals: %w", err)
	}
	if len(rentals) == 0 {
		s.log.Info("overdue sweep: no rentals past their end date")
		return nil
	}
	for _, rental := range rentals {
		s.log.WithFields(logrus.Fields{
			"rental_id": rental.ID,
			"car_id":    rental.CarID,
			"end_date":  rental.EndDate,
		}).Warn("rental past its end date is still on record; car stays unavailable until it is cancelled")
	}
	return nil
}
