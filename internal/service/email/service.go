package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/resend/resend-go/v2"

	"gharbazaar/internal/config"
)

type Service interface {
	SendEmailVerification(ctx context.Context, toEmail, name, verificationToken string) error
	// SendAssignmentOffer mails an agent about a new inquiry assignment.
	// The accept/decline links deep-link into the assignments page and
	// trigger the response automatically on load.
	SendAssignmentOffer(ctx context.Context, toEmail, agentName, propertyTitle, customerName string, assignmentID string, expiresAt time.Time) error
	SendBookingCancelled(ctx context.Context, toEmail, ownerName, propertyTitle string) error
}

type service struct {
	client *resend.Client
	cfg    *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
	}
}

var verificationTmpl = template.Must(template.New("verification").Parse(`
<p>Hi {{.Name}},</p>
<p>Welcome to GharBazaar. Please confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">Verify email</a></p>
<p>If you did not create this account you can ignore this message.</p>
`))

var assignmentOfferTmpl = template.Must(template.New("assignment_offer").Parse(`
<p>Hi {{.AgentName}},</p>
<p>You have a new inquiry assignment: <strong>{{.CustomerName}}</strong> is interested in
<strong>{{.PropertyTitle}}</strong>.</p>
<p>Please respond before {{.ExpiresAt}}.</p>
<p>
  <a href="{{.AcceptLink}}">Accept assignment</a> &nbsp;|&nbsp;
  <a href="{{.DeclineLink}}">Decline</a>
</p>
`))

var bookingCancelledTmpl = template.Must(template.New("booking_cancelled").Parse(`
<p>Hi {{.Name}},</p>
<p>A tour booking for <strong>{{.PropertyTitle}}</strong> was cancelled by the customer.</p>
`))

func (s *service) SendEmailVerification(ctx context.Context, toEmail, name, verificationToken string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.AppBaseURL, url.QueryEscape(verificationToken))

	return s.send(toEmail, "Verify your email", verificationTmpl, struct {
		Name string
		Link string
	}{name, link})
}

func (s *service) SendAssignmentOffer(ctx context.Context, toEmail, agentName, propertyTitle, customerName string, assignmentID string, expiresAt time.Time) error {
	base := fmt.Sprintf("%s/agent/assignments?assignment=%s", s.cfg.AppBaseURL, url.QueryEscape(assignmentID))

	return s.send(toEmail, "New inquiry assignment", assignmentOfferTmpl, struct {
		AgentName     string
		CustomerName  string
		PropertyTitle string
		ExpiresAt     string
		AcceptLink    string
		DeclineLink   string
	}{
		AgentName:     agentName,
		CustomerName:  customerName,
		PropertyTitle: propertyTitle,
		ExpiresAt:     expiresAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		AcceptLink:    base + "&action=accept",
		DeclineLink:   base + "&action=decline",
	})
}

func (s *service) SendBookingCancelled(ctx context.Context, toEmail, ownerName, propertyTitle string) error {
	return s.send(toEmail, "Booking cancelled", bookingCancelledTmpl, struct {
		Name          string
		PropertyTitle string
	}{ownerName, propertyTitle})
}

func (s *service) send(toEmail, subject string, tmpl *template.Template, data interface{}) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("GharBazaar <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
