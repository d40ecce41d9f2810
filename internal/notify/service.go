package notify

import (
	"context"
	"fmt"
	"strings"

	evbus "github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
)

// Settings exposes the SMTP and store settings the mailer reads at send time.
type Settings interface {
	GetString(category, name string) string
}

// MailSender delivers one message. The production implementation dials SMTP
// per send; tests substitute a recorder.
type MailSender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	settings Settings
}

func (s *smtpSender) Send(to, subject, body string) error {
	host := s.settings.GetString("smtp", "Host")
	if host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	port := cast.ToInt(s.settings.GetString("smtp", "Port"))
	if port == 0 {
		port = 587
	}
	from := s.settings.GetString("smtp", "From")
	user := s.settings.GetString("smtp", "Username")
	passwd := s.settings.GetString("smtp", "Password")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, user, passwd)
	return d.DialAndSend(m)
}

// Service forwards order events to e-mail on a worker pool. Delivery is
// best-effort: failures are logged and never retried.
type Service struct {
	bus      evbus.Bus
	pool     *ants.Pool
	profiles store.ProfileRepository
	settings Settings
	sender   MailSender
}

func NewService(bus evbus.Bus, profiles store.ProfileRepository, settings Settings) (*Service, error) {
	pool, err := ants.NewPool(8, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &Service{
		bus:      bus,
		pool:     pool,
		profiles: profiles,
		settings: settings,
		sender:   &smtpSender{settings: settings},
	}, nil
}

// SetSender overrides the mail transport (used in tests).
func (s *Service) SetSender(sender MailSender) {
	s.sender = sender
}

// Start subscribes to the order topics.
func (s *Service) Start() error {
	if err := s.bus.Subscribe(TopicOrderCreated, s.onOrderCreated); err != nil {
		return err
	}
	if err := s.bus.Subscribe(TopicOrderStatusChanged, s.onStatusChanged); err != nil {
		return err
	}
	zap.L().Info("notify service started")
	return nil
}

// Stop unsubscribes and releases the pool.
func (s *Service) Stop() {
	_ = s.bus.Unsubscribe(TopicOrderCreated, s.onOrderCreated)
	_ = s.bus.Unsubscribe(TopicOrderStatusChanged, s.onStatusChanged)
	s.pool.Release()
	zap.L().Info("notify service stopped")
}

func (s *Service) submit(task func()) {
	if err := s.pool.Submit(task); err != nil {
		zap.L().Warn("notify pool rejected task", zap.Error(err))
	}
}

func (s *Service) onOrderCreated(evt OrderEvent) {
	s.submit(func() {
		to := s.settings.GetString("store", "OperatorEmail")
		if to == "" {
			return
		}
		subject := fmt.Sprintf("New order %d - %s", evt.Order.ID, formatTotal(evt.Order.Total))
		if err := s.sender.Send(to, subject, orderMailBody(evt)); err != nil {
			zap.L().Error("order mail failed", zap.Int64("order_id", evt.Order.ID), zap.Error(err))
		}
	})
}

func (s *Service) onStatusChanged(evt StatusEvent) {
	s.submit(func() {
		profile, err := s.profiles.GetByID(context.Background(), evt.Order.UserId)
		if err != nil || profile.Email == "" {
			return
		}
		subject := fmt.Sprintf("Your order is now %s", evt.Order.Status)
		body := fmt.Sprintf("Hello %s,\n\nOrder %d has been updated to %q.\n\nTotal: %s\n",
			profile.FullName, evt.Order.ID, evt.Order.Status, formatTotal(evt.Order.Total))
		if err := s.sender.Send(profile.Email, subject, body); err != nil {
			zap.L().Error("status mail failed", zap.Int64("order_id", evt.Order.ID), zap.Error(err))
		}
	})
}

func orderMailBody(evt OrderEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %d (%s)\n\n", evt.Order.ID, evt.Order.Status)
	fmt.Fprintf(&b, "Ship to: %s, %s\nPhone: %s\n\n",
		evt.Order.ShippingAddress, evt.Order.ShippingCity, evt.Order.Phone)
	for _, item := range evt.Items {
		fmt.Fprintf(&b, "  %s x %d @ %s\n", item.ProductName, item.Quantity, formatTotal(item.ProductPrice))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", formatTotal(evt.Order.Total))
	return b.String()
}

func formatTotal(v float64) string {
	return fmt.Sprintf("Rs. %.0f", v)
}

// ReminderMail is used by the daily job to nudge the operator about orders
// that sat in pending for too long.
func (s *Service) ReminderMail(orders []domain.Order) {
	if len(orders) == 0 {
		return
	}
	to := s.settings.GetString("store", "OperatorEmail")
	if to == "" {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d order(s) still pending:\n\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "  order %d placed %s total %s\n",
			o.ID, o.CreatedAt.Format("2006-01-02 15:04"), formatTotal(o.Total))
	}
	s.submit(func() {
		if err := s.sender.Send(to, "Pending order reminder", b.String()); err != nil {
			zap.L().Error("reminder mail failed", zap.Error(err))
		}
	})
}
