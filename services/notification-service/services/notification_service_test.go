package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

type mockCartRepo struct {
	entries map[string]models.CartEntry
	err     error
}

func (m *mockCartRepo) Get(_ context.Context, userID, carID string) (*models.CartEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.entries[userID+"/"+carID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *mockCartRepo) Put(context.Context, models.CartEntry) error { return nil }

func (m *mockCartRepo) Delete(context.Context, string, string) error { return nil }

func (m *mockCartRepo) ListByUser(context.Context, string) ([]models.CartEntry, error) {
	return nil, nil
}

type mockCarRepo struct {
	cars map[string]models.Car
	err  error
}

func (m *mockCarRepo) Get(_ context.Context, carID string) (*models.Car, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.cars[carID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *mockCarRepo) Search(context.Context, string) ([]models.Car, error) { return nil, nil }

type published struct {
	topic, subject, message string
}

type mockSNS struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (m *mockSNS) Publish(_ context.Context, topicArn, subject, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, published{topicArn, subject, message})
	return nil
}

var corolla = models.Car{CarID: "c1", Make: "Toyota", Model: "Corolla", Year: 2022, Price: decimal.NewFromInt(40)}

func newService(cart *mockCartRepo, cars *mockCarRepo, sns *mockSNS) *NotificationService {
	return NewNotificationService(NewEnricher(cart, cars, zap.NewNop()), sns, "arn:aws:sns:us-east-1:000000000000:BookingNotifications", zap.NewNop(), nil)
}

func TestProcessRecordScenario(t *testing.T) {
	sns := &mockSNS{}
	svc := newService(
		&mockCartRepo{entries: map[string]models.CartEntry{"u1/c1": {UserID: "u1", CarID: "c1", Quantity: 5}}},
		&mockCarRepo{cars: map[string]models.Car{"c1": corolla}},
		sns,
	)

	require.NoError(t, svc.ProcessRecord(context.Background(), `{"bookingId":"b1","userId":"u1","carId":"c1"}`))
	require.Len(t, sns.sent, 1)
	assert.Equal(t, "Your Car Rental Booking", sns.sent[0].subject)
	assert.Equal(t,
		"Toyota Corolla (2022)\nRental Days: 5 - Daily Rate: $40.00/day - Total: $200.00\nBooking ID: b1",
		sns.sent[0].message)
}

func TestProcessRecordCartFailureDefaultsToOneDay(t *testing.T) {
	sns := &mockSNS{}
	svc := newService(&mockCartRepo{err: errors.New("throttled")}, &mockCarRepo{cars: map[string]models.Car{"c1": corolla}}, sns)

	require.NoError(t, svc.ProcessRecord(context.Background(), `{"bookingId":"b1","userId":"u1","carId":"c1"}`))
	assert.Contains(t, sns.sent[0].message, "Rental Days: 1")
	assert.Contains(t, sns.sent[0].message, "Total: $40.00")
}

func TestProcessRecordMissingCarUsesDefaults(t *testing.T) {
	sns := &mockSNS{}
	svc := newService(
		&mockCartRepo{entries: map[string]models.CartEntry{"u1/c9": {Quantity: 3}}},
		&mockCarRepo{},
		sns,
	)

	require.NoError(t, svc.ProcessRecord(context.Background(), `{"bookingId":"b1","userId":"u1","carId":"c9"}`))
	assert.Equal(t,
		"Unknown (N/A)\nRental Days: 3 - Daily Rate: $0.00/day - Total: $0.00\nBooking ID: b1",
		sns.sent[0].message)
}

func TestProcessRecordDuplicateDeliveryPublishesTwice(t *testing.T) {
	sns := &mockSNS{}
	svc := newService(&mockCartRepo{}, &mockCarRepo{cars: map[string]models.Car{"c1": corolla}}, sns)
	body := `{"bookingId":"b1","userId":"u1","carId":"c1"}`

	require.NoError(t, svc.ProcessRecord(context.Background(), body))
	require.NoError(t, svc.ProcessRecord(context.Background(), body))
	require.Len(t, sns.sent, 2)
	assert.Equal(t, sns.sent[0], sns.sent[1])
}

func TestProcessRecordMalformed(t *testing.T) {
	sns := &mockSNS{}
	svc := newService(&mockCartRepo{}, &mockCarRepo{}, sns)

	for _, body := range []string{`not json`, `{"bookingId":"b1","carId":"c1"}`, `{"userId":"u1"}`} {
		err := svc.ProcessRecord(context.Background(), body)
		assert.ErrorIs(t, err, ErrMalformedEvent, body)
	}
	assert.Empty(t, sns.sent)
}

func TestProcessRecordPublishFailure(t *testing.T) {
	svc := newService(&mockCartRepo{}, &mockCarRepo{}, &mockSNS{err: errors.New("sns throttled")})
	err := svc.ProcessRecord(context.Background(), `{"bookingId":"b1","userId":"u1","carId":"c1"}`)
	assert.ErrorIs(t, err, apperrors.ErrDependency)
	assert.NotErrorIs(t, err, ErrMalformedEvent)
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent(`{"userId":"u1","carId":"c1"}`)
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", ev.BookingID)

	ev, err = ParseEvent(`{"Type":"Notification","Message":"{\"bookingId\":\"b2\",\"userId\":\"u1\",\"carId\":\"c1\"}"}`)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationEvent{BookingID: "b2", UserID: "u1", CarID: "c1"}, ev)
}

func TestEnricherPartialCarRecord(t *testing.T) {
	e := NewEnricher(&mockCartRepo{}, &mockCarRepo{cars: map[string]models.Car{"c1": {CarID: "c1", Model: "Civic"}}}, zap.NewNop())
	got := e.Car(context.Background(), "c1")
	assert.False(t, got.Degraded)
	assert.Equal(t, "Unknown", got.Value.Make)
	assert.Equal(t, "Civic", got.Value.Model)
	assert.Equal(t, "N/A", got.Value.Year)
	assert.True(t, got.Value.Rate.IsZero())
}

func TestEnricherTextYear(t *testing.T) {
	cars := &mockCarRepo{cars: map[string]models.Car{
		"c1": {CarID: "c1", Make: "Ford", Model: "T", Price: decimal.NewFromInt(12), Extra: map[string]any{"year": "vintage"}},
	}}
	got := NewEnricher(&mockCartRepo{}, cars, zap.NewNop()).Car(context.Background(), "c1")
	assert.False(t, got.Degraded)
	assert.Equal(t, "Ford", got.Value.Make)
	assert.Equal(t, "vintage", got.Value.Year)
	assert.True(t, got.Value.Rate.Equal(decimal.NewFromInt(12)))
}

func TestEnricherQuantity(t *testing.T) {
	cart := &mockCartRepo{entries: map[string]models.CartEntry{
		"u1/c1": {Quantity: 4},
		"u1/c2": {Quantity: 0},
	}}
	e := NewEnricher(cart, &mockCarRepo{}, zap.NewNop())

	assert.Equal(t, Resolved[int]{Value: 4}, e.Quantity(context.Background(), "u1", "c1"))

	zero := e.Quantity(context.Background(), "u1", "c2")
	assert.True(t, zero.Degraded)
	assert.Equal(t, 1, zero.Value)

	missing := e.Quantity(context.Background(), "u1", "c3")
	assert.True(t, missing.Degraded)
	assert.ErrorIs(t, missing.Err, repository.ErrNotFound)
}

func TestFormatMessageRoundsAtBoundary(t *testing.T) {
	n := Notification{
		BookingID: "b1",
		Car:       CarDetails{Make: "Kia", Model: "Rio", Year: "2020", Rate: decimal.RequireFromString("33.335")},
		Quantity:  3,
	}
	assert.Equal(t, "100.01", n.Total().StringFixed(2))
	assert.Contains(t, FormatMessage(n), "Daily Rate: $33.34/day - Total: $100.01")
}
