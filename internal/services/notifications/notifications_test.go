package notifications

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jidetireni/adyc-membership/internal/repository"
	"github.com/Jidetireni/adyc-membership/internal/services/card"
	"github.com/Jidetireni/adyc-membership/internal/services/qr"
	"github.com/Jidetireni/adyc-membership/pkg/email"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/Jidetireni/adyc-membership/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeMailer struct {
	mu      sync.Mutex
	sent    []*email.SendEmailInput
	failFor map[string]error
}

func (f *fakeMailer) Render(name email.EmailTemplateType, data any) (string, error) {
	td := data.(templateData)
	return string(name) + ":" + td.MemberID + ":" + td.VerificationURL, nil
}

func (f *fakeMailer) Send(ctx context.Context, input *email.SendEmailInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.failFor[input.To]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, input)
	return nil
}

func (f *fakeMailer) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		out = append(out, s.To)
	}
	return out
}

type failingRenderer struct{}

func (failingRenderer) Render(*repository.Member) ([]byte, error) {
	return nil, card.ErrRender
}

type DispatcherSuite struct {
	suite.Suite
	mailer     *fakeMailer
	metrics    *metrics.Metrics
	dispatcher *Dispatcher
	member     *repository.Member
}

func (s *DispatcherSuite) SetupTest() {
	s.mailer = &fakeMailer{failFor: map[string]error{}}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.dispatcher = New(s.mailer, card.NewRenderer(), qr.NewIssuer("https://example.org"), "admin@adyc.org", logger.Nop(), s.metrics)
	s.member = &repository.Member{
		MemberID:     "ADYC-2025-ABC123",
		SerialNumber: "SN-XY12ZW90",
		FullName:     "Jane Doe",
		Email:        "a@x.org",
		State:        "Lagos",
		Gender:       "female",
		DateOfBirth:  time.Date(1995, 5, 1, 0, 0, 0, 0, time.UTC),
		RegisteredAt: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) TestSendMemberConfirmation() {
	ok := s.dispatcher.SendMemberConfirmation(context.Background(), s.member)
	s.True(ok)

	s.Require().Len(s.mailer.sent, 1)
	sent := s.mailer.sent[0]
	s.Equal("a@x.org", sent.To)
	s.Contains(sent.Body, "https://example.org/verify/ADYC-2025-ABC123")
	s.Require().Len(sent.Attachments, 1)
	s.Equal("ADYC-ID-ADYC-2025-ABC123.pdf", sent.Attachments[0].Filename)
	s.Equal("application/pdf", sent.Attachments[0].MimeType)
	s.NotEmpty(sent.Attachments[0].Content)
}

func (s *DispatcherSuite) TestSendAdminAlert() {
	s.True(s.dispatcher.SendAdminAlert(context.Background(), s.member))
	s.Equal([]string{"admin@adyc.org"}, s.mailer.recipients())
	s.Contains(s.mailer.sent[0].Subject, "Jane Doe")
}

func (s *DispatcherSuite) TestFailureReportsFalse() {
	s.mailer.failFor["a@x.org"] = errors.New("smtp: 550 mailbox unavailable")

	s.False(s.dispatcher.SendMemberConfirmation(context.Background(), s.member))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Notifications.WithLabelValues(KindMemberConfirmation, "failed")))
}

func (s *DispatcherSuite) TestRenderFailureReportsFalse() {
	s.dispatcher.Renderer = failingRenderer{}

	s.False(s.dispatcher.SendAdminAlert(context.Background(), s.member))
	s.Empty(s.mailer.sent)
}

func (s *DispatcherSuite) TestDispatchSendsBothIndependently() {
	s.mailer.failFor["a@x.org"] = errors.New("smtp: timeout")

	s.dispatcher.Dispatch(context.Background(), s.member)
	s.dispatcher.Wait()

	s.Equal([]string{"admin@adyc.org"}, s.mailer.recipients())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Notifications.WithLabelValues(KindAdminAlert, "sent")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Notifications.WithLabelValues(KindMemberConfirmation, "failed")))
}

func (s *DispatcherSuite) TestDispatchOutlivesCallerContext() {
	ctx, cancel := context.WithCancel(context.Background())
	s.dispatcher.Dispatch(ctx, s.member)
	cancel()
	s.dispatcher.Wait()

	s.ElementsMatch([]string{"a@x.org", "admin@adyc.org"}, s.mailer.recipients())
}

func (s *DispatcherSuite) TestDispatchCopiesMember() {
	s.dispatcher.Dispatch(context.Background(), s.member)
	s.member.Email = "changed@x.org"
	s.dispatcher.Wait()

	s.ElementsMatch([]string{"a@x.org", "admin@adyc.org"}, s.mailer.recipients())
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (s *DispatcherSuite) TestDispatchLogsIncompleteDelivery() {
	var logs lockedBuffer
	s.dispatcher.Logger = logger.NewWithWriter(&logs)
	s.mailer.failFor["admin@adyc.org"] = errors.New("smtp: 421 try again later")

	s.dispatcher.Dispatch(context.Background(), s.member)
	s.dispatcher.Wait()

	s.Equal([]string{"a@x.org"}, s.mailer.recipients())
	s.Contains(logs.String(), "registration notifications incomplete")
	s.Contains(logs.String(), KindAdminAlert)
	s.Contains(logs.String(), "421 try again later")
}

func (s *DispatcherSuite) TestDispatchLogsNothingIncompleteOnSuccess() {
	var logs lockedBuffer
	s.dispatcher.Logger = logger.NewWithWriter(&logs)

	s.dispatcher.Dispatch(context.Background(), s.member)
	s.dispatcher.Wait()

	s.NotContains(logs.String(), "registration notifications incomplete")
}

func TestSendMemberConfirmationSync(t *testing.T) {
	boom := errors.New("connection refused")
	mailer := &fakeMailer{failFor: map[string]error{"a@x.org": boom}}
	d := New(mailer, card.NewRenderer(), qr.NewIssuer("https://example.org"), "admin@adyc.org", logger.Nop(), nil)

	m := &repository.Member{
		MemberID: "ADYC-2025-ABC123", SerialNumber: "SN-XY12ZW90", FullName: "Jane Doe", Email: "a@x.org",
		State: "Lagos", Gender: "female", DateOfBirth: time.Date(1995, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	err := d.SendMemberConfirmationSync(context.Background(), m)
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, boom)

	delete(mailer.failFor, "a@x.org")
	require.NoError(t, d.SendMemberConfirmationSync(context.Background(), m))
	assert.Len(t, mailer.sent, 1)
}
