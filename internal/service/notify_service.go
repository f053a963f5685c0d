package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMS sends text messages through the Twilio REST API.
type TwilioSMS struct {
	accountSid string
	authToken  string
	fromNumber string
}

func NewTwilioSMS(accountSid, authToken, fromNumber string) *TwilioSMS {
	return &TwilioSMS{accountSid: accountSid, authToken: authToken, fromNumber: fromNumber}
}

func (t *TwilioSMS) SendSMS(toNumber, messageBody string) error {
	if t.accountSid == "" || t.authToken == "" || t.fromNumber == "" {
		return fmt.Errorf("twilio credentials are not fully configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number %q is not in E.164 format, the SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   t.accountSid,
		Password:   t.authToken,
		AccountSid: t.accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(t.fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s, message SID %s", toNumber, *resp.Sid)
	}
	return nil
}

// SendGridMail sends email through SendGrid.
type SendGridMail struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridMail(apiKey, fromEmail, fromName string) *SendGridMail {
	if fromName == "" {
		fromName = "Bistro Nova"
	}
	return &SendGridMail{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (m *SendGridMail) SendEmail(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	if m.apiKey == "" || m.fromEmail == "" {
		return fmt.Errorf("sendgrid is not configured")
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email through SendGrid: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (subject: %s), status %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
}
