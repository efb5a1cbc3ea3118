package service

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"carrental/internal/config"
	"carrental/internal/db"
)

const notifyTimeFormat = "02 Jan 2006 15:04 MST"

// NotifyService sends booking and cancellation notices to the rental desk by
// email and SMS. Delivery is fire-and-forget: a failed notification is logged
// and never fails the booking that triggered it. Channels without credentials
// configured are skipped.
type NotifyService struct {
	cfg *config.Config
	log *logrus.Logger
}

func NewNotifyService(cfg *config.Config, log *logrus.Logger) *NotifyService {
	return &NotifyService{cfg: cfg, log: log}
}

func (s *NotifyService) RentalBooked(car *db.Car, rental *db.Rental) {
	subject := fmt.Sprintf("Rental %s booked", rental.Code)
	body := fmt.Sprintf(
		"Rental %s booked by %s.\n\nCar: %s %s (%d)\nPick-up: %s\nReturn: %s\n",
		rental.Code, rental.UserName, car.Make, car.Model, car.Year,
		rental.StartDate.Format(notifyTimeFormat),
		rental.EndDate.Format(notifyTimeFormat),
	)
	sms := fmt.Sprintf("Rental %s booked: %s %s, pick-up %s.",
		rental.Code, car.Make, car.Model, rental.StartDate.Format("02/01 15:04"))
	s.dispatch(subject, body, sms)
}

// RentalCancelled tolerates a nil car: the rental may outlive its car record.
func (s *NotifyService) RentalCancelled(car *db.Car, rental *db.Rental) {
	carDesc := "unknown car"
	if car != nil {
		carDesc = fmt.Sprintf("%s %s (%d)", car.Make, car.Model, car.Year)
	}
	subject := fmt.Sprintf("Rental %s cancelled", rental.Code)
	body := fmt.Sprintf(
		"Rental %s by %s was cancelled.\n\nCar: %s\nPick-up was: %s\nReturn was: %s\n",
		rental.Code, rental.UserName, carDesc,
		rental.StartDate.Format(notifyTimeFormat),
		rental.EndDate.Format(notifyTimeFormat),
	)
	sms := fmt.Sprintf("Rental %s cancelled (%s).", rental.Code, carDesc)
	s.dispatch(subject, body, sms)
}

func (s *NotifyService) dispatch(subject, body, sms string) {
	if s == nil || s.cfg == nil {
		return
	}
	go func() {
		if err := s.sendEmail(subject, body); err != nil {
			s.log.WithError(err).Warn("rental notification email failed")
		}
	}()
	go func() {
		if err := s.sendSMS(sms); err != nil {
			s.log.WithError(err).Warn("rental notification SMS failed")
		}
	}()
}

func (s *NotifyService) sendEmail(subject, body string) error {
	if s.cfg.SendGridAPIKey == "" || s.cfg.FromEmail == "" || s.cfg.NotifyEmail == "" {
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail("Rental desk", s.cfg.NotifyEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("error sending email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *NotifyService) sendSMS(body string) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" ||
		s.cfg.TwilioFromNumber == "" || s.cfg.NotifyPhone == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.cfg.TwilioAccountSID,
		Password:   s.cfg.TwilioAuthToken,
		AccountSid: s.cfg.TwilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(s.cfg.NotifyPhone)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("error sending SMS via Twilio: %w", err)
	}
	return nil
}
