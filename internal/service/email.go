package service

import (
	"context"
	"fmt"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/pricing"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendRentalReceipt(ctx context.Context, email, name string, rental *domain.Rental) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your PowerLoop rental receipt")

	body := fmt.Sprintf("Hello %s,\n\nThanks for returning your powerbank (%s).\n\nAmount charged: %s\n\nThe pre-authorized hold on your card has been settled; any remainder is released automatically.\n\nBest regards,\nThe PowerLoop Team",
		name, rental.PowerBankSerial, pricing.FormatCurrency(rental.FinalAmountCents))
	m.SetBody("text/plain", body)

	return s.send(m)
}

func (s *emailService) SendOrderConfirmation(ctx context.Context, email, name string, order *domain.Order) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Order #%d confirmed", order.ID))

	body := fmt.Sprintf("Hello %s,\n\nYour order is confirmed:\n\n", name)
	for _, item := range order.Items {
		body += fmt.Sprintf("  %dx %s — %s\n", item.Quantity, item.Name, pricing.FormatCurrency(item.UnitPriceCents*item.Quantity))
	}
	body += fmt.Sprintf("\nTotal: %s\n\nBest regards,\nThe PowerLoop Team", pricing.FormatCurrency(order.TotalCents))
	m.SetBody("text/plain", body)

	return s.send(m)
}

func (s *emailService) SendOpsSummary(ctx context.Context, email, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.send(m)
}

func (s *emailService) send(m *gomail.Message) error {
	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}
