package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendVendorVerified(toEmail, businessName string) error
	SendSettlementCompleted(toEmail, businessName string, s SettlementNotice) error
	SendSubscriptionNotice(toEmail, businessName string, n SubscriptionNotice) error
}

type SettlementNotice struct {
	Reference        string
	Date             string
	Amount           string
	PaymentReference string
}

type SubscriptionNotice struct {
	Headline string // e.g. "Your plan was upgraded to yearly"
	PlanType string
	EndDate  string
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, toEmail, err)
	}
	return nil
}

func (s *emailService) SendVendorVerified(toEmail, businessName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome aboard, %s!</h2>
			<p>Your vendor account has been verified. You can now list stations and receive settlements.</p>
		</div>
	`, businessName)
	return s.send(toEmail, "Your vendor account is verified", body)
}

func (s *emailService) SendSettlementCompleted(toEmail, businessName string, n SettlementNotice) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Settlement paid</h2>
			<p>Hello %s,</p>
			<p>Your earnings for <strong>%s</strong> have been transferred.</p>
			<table style="border-collapse: collapse;">
				<tr><td>Settlement</td><td>%s</td></tr>
				<tr><td>Amount</td><td>%s</td></tr>
				<tr><td>Bank reference</td><td>%s</td></tr>
			</table>
		</div>
	`, businessName, n.Date, n.Reference, n.Amount, n.PaymentReference)
	return s.send(toEmail, "Settlement "+n.Reference+" completed", body)
}

func (s *emailService) SendSubscriptionNotice(toEmail, businessName string, n SubscriptionNotice) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>Hello %s,</p>
			<p>Plan: <strong>%s</strong><br/>Valid until: <strong>%s</strong></p>
		</div>
	`, n.Headline, businessName, n.PlanType, n.EndDate)
	return s.send(toEmail, n.Headline, body)
}
