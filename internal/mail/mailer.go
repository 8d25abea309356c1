// Package mail delivers order notifications over SMTP.
package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/dmstore/backend/internal/order"
)

type Config struct {
	Host       string
	Port       int
	User       string
	Pass       string
	StoreEmail string
	StoreName  string
}

type Sender struct {
	cfg    Config
	client *gomail.Client
}

func New(cfg Config) (*Sender, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Pass),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Sender{cfg: cfg, client: client}, nil
}

// OrderPlaced sends the operator notification and the customer thank-you,
// both rendering the same line-item table.
func (s *Sender) OrderPlaced(ctx context.Context, o *order.Order) error {
	table, err := renderOrderTable(o)
	if err != nil {
		return err
	}
	msgs, err := s.compose(o,
		fmt.Sprintf("New order received - %s - %s", o.OrderNumber, s.cfg.StoreName),
		renderAdminBody(o, table),
		fmt.Sprintf("Thanks for your order - %s - %s", o.OrderNumber, s.cfg.StoreName),
		renderCustomerBody(o, table, false),
	)
	if err != nil {
		return err
	}
	return s.send(ctx, msgs)
}

// OrderUpdated mirrors OrderPlaced against the edited totals.
func (s *Sender) OrderUpdated(ctx context.Context, o *order.Order) error {
	table, err := renderOrderTable(o)
	if err != nil {
		return err
	}
	msgs, err := s.compose(o,
		fmt.Sprintf("Order updated - %s - %s", o.OrderNumber, s.cfg.StoreName),
		renderAdminBody(o, table),
		fmt.Sprintf("Your order was updated - %s - %s", o.OrderNumber, s.cfg.StoreName),
		renderCustomerBody(o, table, true),
	)
	if err != nil {
		return err
	}
	return s.send(ctx, msgs)
}

func (s *Sender) compose(o *order.Order, adminSubject, adminBody, customerSubject, customerBody string) ([]*gomail.Msg, error) {
	var msgs []*gomail.Msg

	if s.cfg.StoreEmail != "" {
		m, err := s.message(s.cfg.StoreEmail, adminSubject, adminBody)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if o.Customer.Email != "" {
		m, err := s.message(o.Customer.Email, customerSubject, customerBody)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (s *Sender) message(to, subject, body string) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.User); err != nil {
		return nil, err
	}
	if err := m.To(to); err != nil {
		return nil, err
	}
	m.Subject(subject)
	m.SetBodyString(gomail.TypeTextHTML, body)
	return m, nil
}

func (s *Sender) send(ctx context.Context, msgs []*gomail.Msg) error {
	if len(msgs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.client.DialAndSendWithContext(ctx, msgs...)
}
