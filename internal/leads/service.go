package leads

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crescentview/leadgate/internal/bitrix"
	"github.com/crescentview/leadgate/internal/observability/metrics"
	"github.com/crescentview/leadgate/pkg/logging"
)

var tracer = otel.Tracer("leadgate.internal.leads")

// RecordWriter appends one row of scalar values to the system of record.
// The append must succeed or the whole submission fails.
type RecordWriter interface {
	Append(ctx context.Context, row []any) error
}

// CRMForwarder pushes the lead into the CRM. It is best-effort: the service
// absorbs its errors after the record write has succeeded.
type CRMForwarder interface {
	AddLead(ctx context.Context, lead bitrix.Lead) (*bitrix.LeadResult, error)
}

// Notifier tells the sales team about a new lead. Best-effort as well.
type Notifier interface {
	NotifyNewLead(ctx context.Context, sub *Submission, fullPhone string) error
}

// Outcome describes both delivery results for one submission.
type Outcome struct {
	BitrixOK     bool
	BitrixLeadID *int
	FullPhone    string
	Timestamp    string
}

// Service runs the lead pipeline: validate, normalize, write the sheet row,
// then forward to the CRM and notify sales without blocking on either.
type Service struct {
	records  RecordWriter
	crm      CRMForwarder
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService wires the pipeline. records is required; crm, notifier, and
// leadMetrics may be nil, which disables the corresponding best-effort step.
func NewService(records RecordWriter, crm CRMForwarder, notifier Notifier, leadMetrics *metrics.LeadMetrics, logger *logging.Logger) *Service {
	if records == nil {
		panic("leads: record writer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		records:  records,
		crm:      crm,
		notifier: notifier,
		metrics:  leadMetrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Process validates and delivers one submission. Validation errors are the
// sentinel errors from this package; a failed record write wraps
// ErrRecordWrite. CRM and notification failures never surface as errors once
// the record write succeeded.
func (s *Service) Process(ctx context.Context, sub *Submission) (*Outcome, error) {
	if err := sub.Validate(); err != nil {
		s.metrics.ObserveSubmission("rejected")
		return nil, err
	}

	timestamp := s.now().UTC().Format(time.RFC3339)
	sub.Timestamp = timestamp
	fullPhone := NormalizePhone(sub.DialCode, sub.Phone)

	if err := s.appendRecord(ctx, sub.SheetRow(timestamp, fullPhone)); err != nil {
		s.metrics.ObserveSubmission("record_failed")
		s.logger.Error("sheet append failed", "error", err, "email", sub.Email)
		return nil, fmt.Errorf("%w: %v", ErrRecordWrite, err)
	}

	outcome := &Outcome{FullPhone: fullPhone, Timestamp: timestamp}
	s.forwardToCRM(ctx, sub, fullPhone, timestamp, outcome)
	s.notify(ctx, sub, fullPhone)

	s.metrics.ObserveSubmission("accepted")
	return outcome, nil
}

func (s *Service) appendRecord(ctx context.Context, row []any) error {
	ctx, span := tracer.Start(ctx, "leads.sheet.append", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := s.now()
	err := s.records.Append(ctx, row)
	s.metrics.ObserveSheetAppend(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// forwardToCRM is a visible branch, not a try/catch fence: the forwarder
// returns its error as a value and the outcome carries only a flag.
func (s *Service) forwardToCRM(ctx context.Context, sub *Submission, fullPhone, timestamp string, outcome *Outcome) {
	if s.crm == nil {
		s.logger.Warn("bitrix forwarder not configured, skipping CRM push", "email", sub.Email)
		s.metrics.ObserveCRMForward("skipped", "none")
		return
	}

	ctx, span := tracer.Start(ctx, "leads.crm.forward")
	defer span.End()

	res, err := s.crm.AddLead(ctx, bitrix.Lead{
		FirstName:  sub.FirstName,
		LastName:   sub.LastName,
		FullPhone:  fullPhone,
		Email:      sub.Email,
		Language:   sub.Language,
		GoldenVisa: sub.GoldenVisa,
		Consent:    sub.Consent,
		Path:       sub.Path,
		Timestamp:  timestamp,
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveCRMForward("error", "none")
		s.logger.Error("bitrix forward failed", "error", err, "email", sub.Email)
		return
	}

	span.SetAttributes(attribute.Int("bitrix.lead_id", res.ID))
	s.metrics.ObserveCRMForward("ok", res.Encoding)
	s.logger.Info("bitrix lead created", "lead_id", res.ID, "encoding", res.Encoding)
	outcome.BitrixOK = true
	id := res.ID
	outcome.BitrixLeadID = &id
}

func (s *Service) notify(ctx context.Context, sub *Submission, fullPhone string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyNewLead(ctx, sub, fullPhone); err != nil {
		s.logger.Error("lead notification failed", "error", err, "email", sub.Email)
	}
}
