package services

import (
	"context"
	"sync"

	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

type mockBookingRepo struct {
	mu      sync.Mutex
	records map[string]models.BookingRecord
	calls   int
	err     error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{records: map[string]models.BookingRecord{}}
}

func (m *mockBookingRepo) Create(_ context.Context, b *models.BookingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	if _, exists := m.records[b.BookingID]; exists {
		return repository.ErrDuplicateKey
	}
	m.records[b.BookingID] = *b
	return nil
}

func (m *mockBookingRepo) List(context.Context) ([]models.BookingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.BookingRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

type mockQueue struct {
	mu     sync.Mutex
	events []models.NotificationEvent
	calls  int
	err    error
}

func (m *mockQueue) Enqueue(_ context.Context, ev models.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

type mockSender struct {
	bodies []string
	err    error
}

func (m *mockSender) SendMessage(_ context.Context, body string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.bodies = append(m.bodies, body)
	return "msg-1", nil
}
