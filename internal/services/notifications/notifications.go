package notifications

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	"github.com/Jidetireni/adyc-membership/internal/services/card"
	"github.com/Jidetireni/adyc-membership/pkg/email"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/Jidetireni/adyc-membership/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	KindMemberConfirmation = "member_confirmation"
	KindAdminAlert         = "admin_alert"

	// DefaultTimeout bounds a detached dispatch once its caller has returned.
	DefaultTimeout = 2 * time.Minute

	pdfMimeType = "application/pdf"
	dateLayout  = "2 January 2006"
)

var (
	_ Mailer       = (*email.Email)(nil)
	_ CardRenderer = (*card.Renderer)(nil)
)

type Mailer interface {
	Render(name email.EmailTemplateType, data any) (string, error)
	Send(ctx context.Context, input *email.SendEmailInput) error
}

type CardRenderer interface {
	Render(member *repository.Member) ([]byte, error)
}

type LinkBuilder interface {
	VerificationURL(memberID string) string
}

type Dispatcher struct {
	Mailer       Mailer
	Renderer     CardRenderer
	Links        LinkBuilder
	Logger       *logger.Logger
	Metrics      *metrics.Metrics
	AdminAddress string
	Timeout      time.Duration

	wg sync.WaitGroup
}

func New(mailer Mailer, renderer CardRenderer, links LinkBuilder, adminAddress string, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		Mailer:       mailer,
		Renderer:     renderer,
		Links:        links,
		Logger:       log,
		Metrics:      m,
		AdminAddress: adminAddress,
		Timeout:      DefaultTimeout,
	}
}

type templateData struct {
	OrganizationName string
	ContactEmail     string
	FullName         string
	Email            string
	MemberID         string
	SerialNumber     string
	Gender           string
	DateOfBirth      string
	Ward             string
	LGA              string
	State            string
	Country          string
	RegisteredAt     string
	VerificationURL  string
}

func (d *Dispatcher) templateData(m *repository.Member) templateData {
	return templateData{
		OrganizationName: constants.OrganizationName,
		ContactEmail:     constants.OrganizationEmail,
		FullName:         m.FullName,
		Email:            m.Email,
		MemberID:         m.MemberID,
		SerialNumber:     m.SerialNumber,
		Gender:           strings.ToUpper(m.Gender),
		DateOfBirth:      m.DateOfBirth.Format(dateLayout),
		Ward:             m.Ward,
		LGA:              m.LGA,
		State:            m.State,
		Country:          m.Country,
		RegisteredAt:     m.RegisteredAt.Format(dateLayout),
		VerificationURL:  d.Links.VerificationURL(m.MemberID),
	}
}

func (d *Dispatcher) send(ctx context.Context, kind string, to, subject string, tmpl email.EmailTemplateType, m *repository.Member) error {
	document, err := d.Renderer.Render(m)
	if err != nil {
		return err
	}

	body, err := d.Mailer.Render(tmpl, d.templateData(m))
	if err != nil {
		return fmt.Errorf("render %s body: %w", kind, err)
	}

	return d.Mailer.Send(ctx, &email.SendEmailInput{
		To:      to,
		Subject: subject,
		Body:    body,
		Attachments: []email.Attachment{{
			Filename: card.Filename(m.MemberID),
			Content:  document,
			MimeType: pdfMimeType,
		}},
	})
}

func (d *Dispatcher) sendMemberConfirmation(ctx context.Context, m *repository.Member) error {
	subject := fmt.Sprintf("Welcome to %s: your membership ID card", constants.OrganizationInitials)
	return d.send(ctx, KindMemberConfirmation, m.Email, subject, email.EmailTemplateTypeMemberConfirmation, m)
}

func (d *Dispatcher) sendAdminAlert(ctx context.Context, m *repository.Member) error {
	subject := fmt.Sprintf("New member registration: %s (%s)", m.FullName, m.MemberID)
	return d.send(ctx, KindAdminAlert, d.AdminAddress, subject, email.EmailTemplateTypeAdminAlert, m)
}

// report logs a failed send and never propagates it.
func (d *Dispatcher) report(kind string, m *repository.Member, err error) bool {
	d.Metrics.IncrementNotification(kind, err == nil)
	if err != nil {
		d.Logger.Error().
			Err(err).
			Str("kind", kind).
			Str("member_id", m.MemberID).
			Msg("notification not delivered")
		return false
	}

	d.Logger.Info().Str("kind", kind).Str("member_id", m.MemberID).Msg("notification sent")
	return true
}

// SendMemberConfirmation emails the member their card. Failures are logged
// and reported as false.
func (d *Dispatcher) SendMemberConfirmation(ctx context.Context, m *repository.Member) bool {
	return d.report(KindMemberConfirmation, m, d.sendMemberConfirmation(ctx, m))
}

// SendAdminAlert emails the configured administrator about a new member.
func (d *Dispatcher) SendAdminAlert(ctx context.Context, m *repository.Member) bool {
	return d.report(KindAdminAlert, m, d.sendAdminAlert(ctx, m))
}

// SendMemberConfirmationSync is the awaited variant. The delivery error is
// returned to the caller as well as logged.
func (d *Dispatcher) SendMemberConfirmationSync(ctx context.Context, m *repository.Member) error {
	err := d.sendMemberConfirmation(ctx, m)
	d.report(KindMemberConfirmation, m, err)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}

// Dispatch starts both notifications in the background and returns
// immediately. The sends outlive ctx's cancellation but not d.Timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, m *repository.Member) {
	member := *m
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.Timeout)
		defer cancel()

		// a plain Group: one failed send must not cancel the other
		var g errgroup.Group
		g.Go(func() error {
			return d.dispatchOne(KindMemberConfirmation, &member, d.sendMemberConfirmation(ctx, &member))
		})
		g.Go(func() error {
			return d.dispatchOne(KindAdminAlert, &member, d.sendAdminAlert(ctx, &member))
		})
		if err := g.Wait(); err != nil {
			d.Logger.Warn().
				Err(err).
				Str("member_id", member.MemberID).
				Msg("registration notifications incomplete")
		}
	}()
}

func (d *Dispatcher) dispatchOne(kind string, m *repository.Member, err error) error {
	if d.report(kind, m, err) {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", kind, ErrDeliveryFailed, err)
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
