package service

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"sync"

	"restoivr/internal/entities"
)

//go:embed templates/reservation_email.html
var reservationEmailTemplate string

type SMSSender interface {
	SendSMS(toNumber, messageBody string) error
}

type MailSender interface {
	SendEmail(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error
}

// SenderService tells the caller and the staff about a new booking. Both
// messages go out in the background; a failure is logged and never reaches
// the call.
type SenderService struct {
	sms        SMSSender
	mail       MailSender
	staffEmail string
	tmpl       *template.Template
	wg         sync.WaitGroup
}

func NewSenderService(sms SMSSender, mail MailSender, staffEmail string) (*SenderService, error) {
	tmpl, err := template.New("reservation_email").Parse(reservationEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reservation email template: %w", err)
	}
	return &SenderService{sms: sms, mail: mail, staffEmail: staffEmail, tmpl: tmpl}, nil
}

func (s *SenderService) ReservationConfirmed(n entities.ReservationNotice) {
	if s.sms != nil && n.Phone != "" {
		body := fmt.Sprintf("%s : réservation %s confirmée pour %s le %s à %s au nom de %s. À bientôt !",
			n.RestaurantName, n.ReservationCode, entities.Covers(n.People), n.Date, n.Time, n.Name)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.sms.SendSMS(n.Phone, body); err != nil {
				log.Printf("ALERT: reservation %s saved but the confirmation SMS to %s failed: %v", n.ReservationCode, n.Phone, err)
			}
		}()
	}

	if s.mail != nil && s.staffEmail != "" {
		subject := fmt.Sprintf("Nouvelle réservation %s - %d pers. le %s à %s", n.ReservationCode, n.People, n.Date, n.Time)
		plain := fmt.Sprintf("Code: %s\nNom: %s\nPersonnes: %d\nDate: %s\nHeure: %s\nTéléphone: %s\nRemarque: %s\n",
			n.ReservationCode, n.Name, n.People, n.Date, n.Time, n.Phone, n.Notes)

		var html bytes.Buffer
		if err := s.tmpl.Execute(&html, n); err != nil {
			log.Printf("ALERT: could not render the email for reservation %s: %v", n.ReservationCode, err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.mail.SendEmail(s.staffEmail, n.RestaurantName, subject, plain, html.String()); err != nil {
				log.Printf("ALERT: reservation %s saved but the staff email failed: %v", n.ReservationCode, err)
			}
		}()
	}
}

// Wait blocks until every message started so far has been handed over.
func (s *SenderService) Wait() {
	s.wg.Wait()
}
