package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental/internal/apperr"
	"carrental/internal/db"
	"carrental/internal/store"
	"carrental/internal/testutil"
)

var testNow = time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*CarService, *RentalService, store.Store) {
	t.Helper()
	st := testutil.TestStore(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	cars := NewCarService(st, log)
	rentals := NewRentalService(st, NewNotifyService(nil, log), log)
	rentals.now = func() time.Time { return testNow }
	return cars, rentals, st
}

func registerTestCar(t *testing.T, cars *CarService) *db.Car {
	t.Helper()
	car := &db.Car{Make: "Toyota", Model: "Corolla", Year: 2020, DailyRate: 50.0, Available: true}
	require.NoError(t, cars.Register(context.Background(), car))
	return car
}

func TestRegisterThenGet(t *testing.T) {
	cars, _, _ := newTestServices(t)
	ctx := context.Background()

	car := registerTestCar(t, cars)
	require.NotZero(t, car.ID)

	got, err := cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, car.Make, got.Make)
	assert.Equal(t, car.Model, got.Model)
	assert.Equal(t, car.Year, got.Year)
	assert.Equal(t, car.DailyRate, got.DailyRate)
	assert.True(t, got.Available)
}

func TestGetUnknownCar(t *testing.T) {
	cars, _, _ := newTestServices(t)
	_, err := cars.Get(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReserveSuccessFlipsAvailability(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	ctx := context.Background()
	car := registerTestCar(t, cars)

	rental, err := rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "A",
		StartDate: "2025-06-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	require.NoError(t, err)
	assert.NotZero(t, rental.ID)
	assert.NotEmpty(t, rental.Code)
	assert.Equal(t, car.ID, rental.CarID)
	assert.Equal(t, "A", rental.UserName)
	assert.True(t, rental.StartDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rental.EndDate.Equal(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rental.RentalDate.Equal(testNow))

	got, err := cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
}

func TestReserveUnknownCar(t *testing.T) {
	_, rentals, _ := newTestServices(t)
	_, err := rentals.Reserve(context.Background(), 404, RentalRequest{
		UserName:  "A",
		StartDate: "2025-06-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// An unavailable car rejects any booking, even for periods disjoint from the
// rental that holds it.
func TestReserveUnavailableRejectsDisjointDates(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	ctx := context.Background()
	car := registerTestCar(t, cars)

	_, err := rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "A",
		StartDate: "2025-06-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	require.NoError(t, err)

	_, err = rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "B",
		StartDate: "2025-07-10T00:00:00Z",
		EndDate:   "2025-07-15T00:00:00Z",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "not available")
}

// The availability gate runs before the dates are even parsed.
func TestReserveUnavailableGateBeforeDateChecks(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	ctx := context.Background()
	car := registerTestCar(t, cars)
	require.NoError(t, cars.SetAvailability(ctx, car.ID, false))

	_, err := rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "B",
		StartDate: "not-a-timestamp",
		EndDate:   "also-not",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestReserveInvalidTimestamp(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	car := registerTestCar(t, cars)

	_, err := rentals.Reserve(context.Background(), car.ID, RentalRequest{
		UserName:  "A",
		StartDate: "June first",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestReserveOrderingViolation(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	ctx := context.Background()
	car := registerTestCar(t, cars)

	for _, req := range []RentalRequest{
		{UserName: "A", StartDate: "2025-06-05T00:00:00Z", EndDate: "2025-06-01T00:00:00Z"},
		{UserName: "A", StartDate: "2025-06-01T00:00:00Z", EndDate: "2025-06-01T00:00:00Z"},
	} {
		_, err := rentals.Reserve(ctx, car.ID, req)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	}

	// Nothing was booked.
	got, err := cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestReservePastStart(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	car := registerTestCar(t, cars)

	_, err := rentals.Reserve(context.Background(), car.ID, RentalRequest{
		UserName:  "A",
		StartDate: "2025-05-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "past")
}

// Periods that merely touch at an endpoint instant count as overlapping.
func TestReserveTouchingEndpointsConflict(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	ctx := context.Background()
	car := registerTestCar(t, cars)

	_, err := rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "A",
		StartDate: "2025-06-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	require.NoError(t, err)

	// Desk correction re-opens the flag; the overlap scan still protects the
	// booked interval.
	require.NoError(t, cars.SetAvailability(ctx, car.ID, true))

	_, err = rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "B",
		StartDate: "2025-06-05T00:00:00Z",
		EndDate:   "2025-06-07T00:00:00Z",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "overlapping")

	// A gap after the booked interval is fine.
	_, err = rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "B",
		StartDate: "2025-06-05T00:01:00Z",
		EndDate:   "2025-06-07T00:00:00Z",
	})
	require.NoError(t, err)
}

func TestCancelRestoresAvailabilityAndAllowsRebooking(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	ctx := context.Background()
	car := registerTestCar(t, cars)

	first, err := rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "A",
		StartDate: "2025-06-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	require.NoError(t, err)

	require.NoError(t, rentals.Cancel(ctx, first.ID))

	got, err := cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)

	_, err = rentals.Get(ctx, first.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Same dates can be booked again once the first rental is gone.
	_, err = rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "B",
		StartDate: "2025-06-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	require.NoError(t, err)
}

func TestCancelUnknownRentalMutatesNothing(t *testing.T) {
	cars, rentals, st := newTestServices(t)
	ctx := context.Background()
	car := registerTestCar(t, cars)

	_, err := rentals.Reserve(ctx, car.ID, RentalRequest{
		UserName:  "A",
		StartDate: "2025-06-01T00:00:00Z",
		EndDate:   "2025-06-05T00:00:00Z",
	})
	require.NoError(t, err)

	err = rentals.Cancel(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)

	remaining, err := st.ListRentals(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestBookingScenario(t *testing.T) {
	cars, rentals, _ := newTestServices(t)
	ctx := context.Background()

	car := &db.Car{Make: "Toyota", Model: "Corolla", Year: 2020, DailyRate: 50.0, Available: true}
	require.NoError(t, cars.Register(ctx, car))

	req := RentalRequest{
		UserName:  "A",
		StartDate: "2025-06-01T00:00Z",
		EndDate:   "2025-06-05T00:00Z",
	}
	first, err := rentals.Reserve(ctx, car.ID, req)
	require.NoError(t, err)

	got, err := cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)

	req.UserName = "B"
	_, err = rentals.Reserve(ctx, car.ID, req)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	require.NoError(t, rentals.Cancel(ctx, first.ID))
	got, err = cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)

	_, err = rentals.Reserve(ctx, car.ID, req)
	require.NoError(t, err)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{
		"2025-06-01T00:00:00Z",
		"2025-06-01T00:00:00.000Z",
		"2025-06-01T00:00Z",
		"2025-06-01T00:00:00",
		"2025-06-01T00:00",
	} {
		got, err := parseTimestamp(value)
		require.NoError(t, err, value)
		assert.True(t, got.Equal(want), value)
	}

	_, err := parseTimestamp("not a timestamp")
	assert.Error(t, err)
}

func TestListClampsPaging(t *testing.T) {
	cars, _, _ := newTestServices(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		registerTestCar(t, cars)
	}

	// Negative offset and zero limit fall back to defaults.
	got, err := cars.List(ctx, -5, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
