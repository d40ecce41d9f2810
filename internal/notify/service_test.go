package notify

import (
	"context"
	"testing"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
)

type testSettings map[string]string

func (s testSettings) GetString(category, name string) string {
	return s[category+"."+name]
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recorderSender struct {
	sent chan sentMail
}

func newRecorderSender() *recorderSender {
	return &recorderSender{sent: make(chan sentMail, 8)}
}

func (r *recorderSender) Send(to, subject, body string) error {
	r.sent <- sentMail{To: to, Subject: subject, Body: body}
	return nil
}

func (r *recorderSender) wait(t *testing.T) sentMail {
	t.Helper()
	select {
	case m := <-r.sent:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no mail delivered")
		return sentMail{}
	}
}

type staticProfiles struct {
	store.ProfileRepository
	profile domain.Profile
}

func (s *staticProfiles) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	p := s.profile
	return &p, nil
}

func newTestService(t *testing.T, settings testSettings, profiles store.ProfileRepository) (*Service, *recorderSender, evbus.Bus) {
	t.Helper()
	bus := evbus.New()
	svc, err := NewService(bus, profiles, settings)
	require.NoError(t, err)
	sender := newRecorderSender()
	svc.SetSender(sender)
	require.NoError(t, svc.Start())
	t.Cleanup(svc.Stop)
	return svc, sender, bus
}

func TestOrderCreatedMailsOperator(t *testing.T) {
	settings := testSettings{"store.OperatorEmail": "ops@example.com"}
	_, sender, bus := newTestService(t, settings, &staticProfiles{})

	bus.Publish(TopicOrderCreated, OrderEvent{
		Order: domain.Order{ID: 1001, Total: 2000, Status: domain.OrderStatusPending,
			ShippingAddress: "14 Mall Road", ShippingCity: "Lahore", Phone: "0300"},
		Items: []domain.OrderItem{{ProductName: "Midnight Oud", Quantity: 2, ProductPrice: 1000}},
	})

	mail := sender.wait(t)
	assert.Equal(t, "ops@example.com", mail.To)
	assert.Contains(t, mail.Subject, "New order 1001")
	assert.Contains(t, mail.Body, "Midnight Oud x 2")
	assert.Contains(t, mail.Body, "Total: Rs. 2000")
}

func TestStatusChangedMailsCustomer(t *testing.T) {
	profiles := &staticProfiles{profile: domain.Profile{
		ID: 77, Email: "customer@example.com", FullName: "Ayesha Khan",
	}}
	_, sender, bus := newTestService(t, testSettings{}, profiles)

	bus.Publish(TopicOrderStatusChanged, StatusEvent{
		Order: domain.Order{ID: 1002, UserId: 77, Total: 1500, Status: domain.OrderStatusShipped},
	})

	mail := sender.wait(t)
	assert.Equal(t, "customer@example.com", mail.To)
	assert.Contains(t, mail.Subject, "shipped")
	assert.Contains(t, mail.Body, "Ayesha Khan")
}

func TestOrderCreatedSkipsWithoutOperator(t *testing.T) {
	_, sender, bus := newTestService(t, testSettings{}, &staticProfiles{})

	bus.Publish(TopicOrderCreated, OrderEvent{Order: domain.Order{ID: 1}})

	select {
	case m := <-sender.sent:
		t.Fatalf("unexpected mail to %s", m.To)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestReminderMail(t *testing.T) {
	settings := testSettings{"store.OperatorEmail": "ops@example.com"}
	svc, sender, _ := newTestService(t, settings, &staticProfiles{})

	svc.ReminderMail([]domain.Order{
		{ID: 1, Total: 900, CreatedAt: time.Now().Add(-72 * time.Hour)},
		{ID: 2, Total: 1800, CreatedAt: time.Now().Add(-50 * time.Hour)},
	})

	mail := sender.wait(t)
	assert.Equal(t, "Pending order reminder", mail.Subject)
	assert.Contains(t, mail.Body, "2 order(s) still pending")
}
