package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/bakehouse-next/internal/config"
	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/models"
)

var (
	ErrEmailDisabled      = errors.New("email sending is disabled")
	ErrEmailNotConfigured = errors.New("email service is not configured")
	ErrEmailInvalidTo     = errors.New("invalid recipient address")
)

// EmailService sends plain-text order notifications over SMTP.
type EmailService struct {
	cfg       config.EmailConfig
	storeName string
}

func NewEmailService(cfg config.EmailConfig, storeName string) *EmailService {
	if storeName == "" {
		storeName = "Bakehouse"
	}
	return &EmailService{cfg: cfg, storeName: storeName}
}

func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// SendOrderConfirmation notifies the customer that the order was received.
func (s *EmailService) SendOrderConfirmation(order *models.Order) error {
	if order == nil {
		return nil
	}
	subject := fmt.Sprintf("%s order #%d received", s.storeName, order.ID)
	var body bytes.Buffer
	fmt.Fprintf(&body, "Hi %s,\n\n", order.CustomerName)
	body.WriteString("Thanks for your order! Here is what we have for you:\n\n")
	for _, item := range order.Items {
		fmt.Fprintf(&body, "  %d x %s - %s\n", item.Quantity, item.ProductName, formatCents(item.PriceCentsAtOrder*int64(item.Quantity)))
	}
	fmt.Fprintf(&body, "\nTotal: %s\n", formatCents(order.TotalCents))
	if order.PaymentMethod == constants.PaymentMethodPickup {
		body.WriteString("Payment: due at pickup\n")
	} else {
		body.WriteString("Payment: online\n")
	}
	if order.PickupDate != nil {
		fmt.Fprintf(&body, "Pickup date: %s\n", order.PickupDate.Format("Monday, Jan 2 2006"))
	}
	fmt.Fprintf(&body, "\n%s\n", s.storeName)
	return s.sendTextEmail(order.CustomerEmail, subject, body.String())
}

// SendOrderStatusUpdate notifies the customer of a fulfillment change.
func (s *EmailService) SendOrderStatusUpdate(order *models.Order, oldStatus, newStatus string) error {
	if order == nil {
		return nil
	}
	subject := fmt.Sprintf("%s order #%d is now %s", s.storeName, order.ID, newStatus)
	var body bytes.Buffer
	fmt.Fprintf(&body, "Hi %s,\n\n", order.CustomerName)
	fmt.Fprintf(&body, "Your order #%d moved from %s to %s.\n", order.ID, oldStatus, newStatus)
	if newStatus == constants.OrderStatusReady {
		body.WriteString("\nYour order is ready for pickup!\n")
		if order.PickupDate != nil {
			fmt.Fprintf(&body, "Pickup date: %s\n", order.PickupDate.Format("Monday, Jan 2 2006"))
		}
	}
	fmt.Fprintf(&body, "\n%s\n", s.storeName)
	return s.sendTextEmail(order.CustomerEmail, subject, body.String())
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrEmailInvalidTo
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	to := []string{toEmail}
	payload := []byte(msg)
	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, to, payload)
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, to, payload)
	}
	return sendMailPlain(addr, auth, s.cfg.From, to, payload)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func buildFromAddress(from, fromName string) string {
	if strings.TrimSpace(fromName) == "" {
		return from
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromName), from)
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := smtpAuth(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	if err := smtpAuth(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := smtpAuth(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func smtpAuth(client *smtp.Client, auth smtp.Auth) error {
	if auth == nil {
		return nil
	}
	if ok, _ := client.Extension("AUTH"); !ok {
		return nil
	}
	return client.Auth(auth)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
