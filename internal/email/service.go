package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicore/scheduling-api/internal/model"
)

// Service sends human-readable notifications for scheduling events. The
// scheduling core never calls this directly; only the dispatcher worker
// does, off the back of broker messages.
type Service interface {
	SendAppointmentCreated(ctx context.Context, appt *model.Appointment) error
	SendStatusChanged(ctx context.Context, payload *model.AppointmentStatusChangedPayload) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// FrontDesk receives a copy of every scheduling notification. Patient
	// contact details live in the profile system, outside this service.
	FrontDesk string
}

type smtpService struct {
	dialer *gomail.Dialer
	cfg    Config
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
	}
}

func (s *smtpService) SendAppointmentCreated(ctx context.Context, appt *model.Appointment) error {
	subject := fmt.Sprintf("New appointment on %s at %s", model.FormatDate(appt.Date), appt.StartTime)
	body := fmt.Sprintf(
		"Appointment %s\nDoctor: %s\nPatient: %s\nDate: %s\nTime: %s - %s\nStatus: %s\n",
		appt.ID, appt.DoctorID, appt.PatientID,
		model.FormatDate(appt.Date), appt.StartTime, appt.EndTime, appt.Status,
	)
	return s.send(subject, body)
}

func (s *smtpService) SendStatusChanged(ctx context.Context, payload *model.AppointmentStatusChangedPayload) error {
	appt := payload.Appointment
	subject := fmt.Sprintf("Appointment %s is now %s", appt.ID, payload.NewStatus)
	body := fmt.Sprintf(
		"Appointment %s changed from %s to %s\nDoctor: %s\nPatient: %s\nDate: %s at %s\n",
		appt.ID, payload.OldStatus, payload.NewStatus,
		appt.DoctorID, appt.PatientID,
		model.FormatDate(appt.Date), appt.StartTime,
	)
	return s.send(subject, body)
}

func (s *smtpService) send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.FrontDesk)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
