package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/einvoice/backend/internal/domain/compliance"
	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Lifecycle operation names used for spans and metrics
const (
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpChangeStatus = "change_status"
)

// LifecycleService runs invoice create, update and delete as sagas around
// the compliance authority call. Local writes made before the call happen
// in the same transaction as the final writes, so a refused submission rolls
// all of them back; for delete the rollback undoes deletions that were
// already executed.
type LifecycleService struct {
	txScope     TransactionScope
	profiles    organization.ProfileStore
	gateway     ComplianceGateway
	stock       *StockCoordinator
	archive     DocumentArchive
	metrics     *telemetry.InvoiceMetrics
	builderOpts []invoicing.BuilderOption
	logger      *zap.Logger
}

// LifecycleOption configures a LifecycleService
type LifecycleOption func(*LifecycleService)

// WithArchive sets where accepted authority responses are archived
func WithArchive(archive DocumentArchive) LifecycleOption {
	return func(s *LifecycleService) {
		s.archive = archive
	}
}

// WithMetrics sets the lifecycle metrics recorder
func WithMetrics(metrics *telemetry.InvoiceMetrics) LifecycleOption {
	return func(s *LifecycleService) {
		s.metrics = metrics
	}
}

// WithBuilderOptions sets options passed to every document builder
func WithBuilderOptions(opts ...invoicing.BuilderOption) LifecycleOption {
	return func(s *LifecycleService) {
		s.builderOpts = append(s.builderOpts, opts...)
	}
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(
	txScope TransactionScope,
	profiles organization.ProfileStore,
	gateway ComplianceGateway,
	stock *StockCoordinator,
	logger *zap.Logger,
	opts ...LifecycleOption,
) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LifecycleService{
		txScope:  txScope,
		profiles: profiles,
		gateway:  gateway,
		stock:    stock,
		archive:  NoopArchive{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists the lines, reserves stock, submits the new document and,
// once the authority accepts it, stores the invoice in Draft status.
func (s *LifecycleService) Create(ctx context.Context, req CreateInvoiceRequest) (resp *InvoiceDetailResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", OpCreate)
	defer span.End()
	defer func() { s.observe(ctx, span, OpCreate, err) }()

	if missing := req.missingFields(); len(missing) > 0 {
		return nil, shared.NewDomainError(shared.CodeMissingFields,
			"Missing required fields: "+strings.Join(missing, ", "))
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAccountID, req.AccountID.String(),
		telemetry.SpanAttrClientID, req.ClientID.String(),
		telemetry.SpanAttrInvoiceType, req.InvoiceType,
		telemetry.SpanAttrLineCount, len(req.Services),
	)
	log := logger.Enrich(ctx, s.logger)

	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}

	var (
		created   *invoicing.Invoice
		account   *partner.Account
		client    *partner.Client
		submitted bool
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		creator, err := resolveUser(ctx, repos, req.UserID)
		if err != nil {
			return err
		}
		if client, err = resolveClient(ctx, repos, *req.ClientID); err != nil {
			return err
		}
		if account, err = resolveAccount(ctx, repos, *req.AccountID); err != nil {
			return err
		}

		lines := make([]*invoicing.Service, 0, len(req.Services))
		for _, sr := range req.Services {
			in := sr.toInput()
			in.ID = nil
			line, err := invoicing.NewService(in, creator)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
		inv := invoicing.NewDraft(req.header(creator), org.ID, lines)
		if err := inv.CheckDeclaredTotal(*req.Total); err != nil {
			return err
		}

		if err := repos.Services().CreateBatch(ctx, lines); err != nil {
			return fmt.Errorf("create services: %w", err)
		}
		if err := s.stock.Reserve(ctx, repos.Items(), lines); err != nil {
			return err
		}
		telemetry.AddEvent(span, "saga.local_writes", telemetry.SpanAttrLineCount, len(lines))

		doc, err := invoicing.NewBuilder(repos.Counters(), s.builderOpts...).Build(ctx, invoicing.BuildInput{
			Mode:         invoicing.BuildModeNew,
			Invoice:      inv,
			Client:       client,
			Organization: org,
		})
		if err != nil {
			return err
		}

		res := s.gateway.SubmitCreate(ctx, doc, org.RegistrationName)
		if !res.Accepted() {
			log.Warn("Authority refused invoice creation",
				zap.String("invoice_id", doc.ID),
				zap.Int("status", res.Status),
			)
			return compliance.NewUpstreamError(shared.CodeUpstreamSubmissionFailed, shared.ErrUpstreamSubmissionFailed.Message, res)
		}
		submitted = true
		telemetry.AddEvent(span, "saga.submitted",
			telemetry.SpanAttrInvoiceUUID, doc.UUID,
			telemetry.SpanAttrHTTPStatus, res.Status,
		)

		if err := inv.RecordSubmission(s.submission(log, doc, res)); err != nil {
			return err
		}
		inv.XMLLink = s.archiveResponse(ctx, log, doc.UUID, res.Data)

		if err := repos.Invoices().Create(ctx, inv); err != nil {
			return err
		}
		if err := repos.Services().AttachToInvoice(ctx, inv.ID, inv.ServiceIDs); err != nil {
			return fmt.Errorf("attach services: %w", err)
		}
		if err := repos.Counters().Create(ctx, &invoicing.Counter{
			InvoiceID:    inv.ID,
			CounterValue: doc.InvoiceCounterValue,
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}
		if err := linkInvoice(ctx, repos.Links(), inv); err != nil {
			return err
		}
		created = inv
		return nil
	})
	if err != nil {
		if submitted {
			log.Error("Invoice accepted by the authority but not stored locally", zap.Error(err))
		}
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, created.ID,
		telemetry.SpanAttrInvoiceUUID, created.UUID,
	)
	log.Info("Invoice created",
		zap.String("invoice_id", created.ID),
		zap.String("uuid", created.UUID),
		zap.String("total", created.Total.String()),
	)
	return toDetailResponse(created, account, client, org), nil
}

// Update revises the invoice fields and lines, adjusts stock for the line
// changes and resubmits the document under its existing authority identity.
// The invoice returns to Draft.
func (s *LifecycleService) Update(ctx context.Context, id string, req UpdateInvoiceRequest) (resp *InvoiceDetailResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", OpUpdate)
	defer span.End()
	defer func() { s.observe(ctx, span, OpUpdate, err) }()
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceID, id)
	log := logger.Enrich(ctx, s.logger).With(zap.String("invoice_id", id))

	patch := req.Patch()
	if patch.Lines != nil && len(*patch.Lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "Missing required fields: services")
	}

	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}

	var (
		updated   *invoicing.Invoice
		account   *partner.Account
		client    *partner.Client
		submitted bool
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Invoice not found")
		}
		if err := existing.EnsureEditable(); err != nil {
			return err
		}
		if existing.Services, err = repos.Services().FindByInvoice(ctx, existing.ID); err != nil {
			return fmt.Errorf("load services: %w", err)
		}

		next := existing.Clone()
		patch.ApplyTo(next)
		if client, err = resolveClient(ctx, repos, next.ClientID); err != nil {
			return err
		}
		if account, err = resolveAccount(ctx, repos, next.AccountID); err != nil {
			return err
		}

		var diff invoicing.LineDiff
		if patch.Lines != nil {
			creator := existing.CreatorID
			if req.UserID != nil {
				if creator, err = resolveUser(ctx, repos, req.UserID); err != nil {
					return err
				}
			}
			var lines, inserted []*invoicing.Service
			diff, lines, inserted, err = reviseLines(existing.Services, *patch.Lines, creator)
			if err != nil {
				return err
			}
			if err := repos.Services().CreateBatch(ctx, inserted); err != nil {
				return fmt.Errorf("create services: %w", err)
			}
			for _, u := range diff.Updates {
				if err := repos.Services().Update(ctx, u.Line); err != nil {
					return fmt.Errorf("update service %s: %w", u.Line.ID, err)
				}
			}
			if err := s.stock.Apply(ctx, repos.Items(), LineStockChanges(diff, inserted)); err != nil {
				return err
			}
			next.SetLines(lines)
		} else {
			next.Recalculate()
		}
		telemetry.AddEvent(span, "saga.local_writes", telemetry.SpanAttrLineCount, len(next.Services))

		doc, err := invoicing.NewBuilder(repos.Counters(), s.builderOpts...).Build(ctx, invoicing.BuildInput{
			Mode:         invoicing.BuildModeUpdate,
			Invoice:      next,
			Client:       client,
			Organization: org,
		})
		if err != nil {
			return err
		}

		res := s.gateway.SubmitUpdate(ctx, doc, next.UUID, org.RegistrationName)
		if !res.Accepted() {
			log.Warn("Authority refused invoice update", zap.Int("status", res.Status))
			return compliance.NewUpstreamError(shared.CodeUpstreamSubmissionFailed, shared.ErrUpstreamSubmissionFailed.Message, res)
		}
		submitted = true
		telemetry.AddEvent(span, "saga.submitted",
			telemetry.SpanAttrInvoiceUUID, doc.UUID,
			telemetry.SpanAttrHTTPStatus, res.Status,
		)

		if err := next.RecordSubmission(s.submission(log, doc, res)); err != nil {
			return err
		}
		if key := s.archiveResponse(ctx, log, doc.UUID, res.Data); key != "" {
			next.XMLLink = key
		}

		if len(diff.Removals) > 0 {
			ids := make([]uuid.UUID, len(diff.Removals))
			for i, r := range diff.Removals {
				ids[i] = r.ID
			}
			if err := repos.Services().DeleteByIDs(ctx, ids); err != nil {
				return fmt.Errorf("delete services: %w", err)
			}
		}
		if err := repos.Services().AttachToInvoice(ctx, next.ID, next.ServiceIDs); err != nil {
			return fmt.Errorf("attach services: %w", err)
		}
		if err := repos.Invoices().Update(ctx, next); err != nil {
			return err
		}
		if err := linkInvoice(ctx, repos.Links(), next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		if submitted {
			log.Error("Invoice update accepted by the authority but not stored locally", zap.Error(err))
		}
		return nil, err
	}

	log.Info("Invoice updated",
		zap.String("uuid", updated.UUID),
		zap.String("total", updated.Total.String()),
	)
	return toDetailResponse(updated, account, client, org), nil
}

// reviseLines applies the requested line collection to the existing lines and
// returns the diff, the final lines in request order and the new lines.
func reviseLines(existing []*invoicing.Service, requested []invoicing.ServiceInput, creator uuid.UUID) (invoicing.LineDiff, []*invoicing.Service, []*invoicing.Service, error) {
	diff, err := invoicing.DiffLines(existing, requested)
	if err != nil {
		return invoicing.LineDiff{}, nil, nil, err
	}
	retained := make(map[uuid.UUID]*invoicing.Service, len(diff.Updates))
	for _, u := range diff.Updates {
		retained[u.Line.ID] = u.Line
	}

	lines := make([]*invoicing.Service, 0, len(requested))
	var inserted []*invoicing.Service
	for _, in := range requested {
		if in.ID == nil {
			line, err := invoicing.NewService(in, creator)
			if err != nil {
				return invoicing.LineDiff{}, nil, nil, err
			}
			inserted = append(inserted, line)
			lines = append(lines, line)
			continue
		}
		line := retained[*in.ID]
		if err := line.Revise(in); err != nil {
			return invoicing.LineDiff{}, nil, nil, err
		}
		lines = append(lines, line)
	}
	return diff, lines, inserted, nil
}

// Delete removes the invoice locally and then at the authority. When the
// authority refuses, the local deletion is rolled back. Stock taken by the
// invoice lines is not returned.
func (s *LifecycleService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", OpDelete)
	defer span.End()
	defer func() { s.observe(ctx, span, OpDelete, err) }()
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceID, id)
	log := logger.Enrich(ctx, s.logger).With(zap.String("invoice_id", id))

	org, err := s.organization(ctx)
	if err != nil {
		return err
	}

	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Invoice not found")
		}
		if err := inv.EnsureDeletable(); err != nil {
			return err
		}
		telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceUUID, inv.UUID)

		if err := repos.Links().UnlinkAccount(ctx, inv.AccountID, inv.ID); err != nil {
			return fmt.Errorf("unlink account: %w", err)
		}
		if err := repos.Links().UnlinkClient(ctx, inv.ClientID, inv.ID); err != nil {
			return fmt.Errorf("unlink client: %w", err)
		}
		if err := repos.Invoices().Delete(ctx, inv.ID); err != nil {
			return err
		}
		if err := repos.Counters().DeleteByInvoiceID(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete counter: %w", err)
		}
		telemetry.AddEvent(span, "saga.local_writes")

		res := s.gateway.SubmitDelete(ctx, inv.UUID, org.RegistrationName)
		if !res.Succeeded() {
			log.Error("Authority refused invoice deletion, rolling back local deletion",
				zap.String("uuid", inv.UUID),
				zap.Int("status", res.Status),
			)
			telemetry.AddEvent(span, "saga.compensated", telemetry.SpanAttrHTTPStatus, res.Status)
			return compliance.NewUpstreamError(shared.CodeUpstreamDeleteFailed, shared.ErrUpstreamDeleteFailed.Message, res)
		}
		telemetry.AddEvent(span, "saga.submitted", telemetry.SpanAttrHTTPStatus, res.Status)

		// TODO: decide with product owners whether deleting an invoice should restock its lines
		log.Info("Invoice deleted; stock reserved by its lines is not restored",
			zap.String("uuid", inv.UUID),
			zap.Int("lines", len(inv.ServiceIDs)),
		)
		return nil
	})
}

// Get returns the invoice with its lines and resolved parties
func (s *LifecycleService) Get(ctx context.Context, id string) (*InvoiceDetailResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "get")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceID, id)

	var (
		inv     *invoicing.Invoice
		account *partner.Account
		client  *partner.Client
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if inv, err = repos.Invoices().FindByID(ctx, id); err != nil {
			return notFound(err, "Invoice not found")
		}
		if inv.Services, err = repos.Services().FindByInvoice(ctx, inv.ID); err != nil {
			return fmt.Errorf("load services: %w", err)
		}
		if account, err = repos.Accounts().FindByID(ctx, inv.AccountID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if client, err = repos.Clients().FindByID(ctx, inv.ClientID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	org, err := s.profiles.Get(ctx)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return toDetailResponse(inv, account, client, org), nil
}

// List returns a page of invoices, most recently updated first
func (s *LifecycleService) List(ctx context.Context, filter ListInvoicesFilter) (*InvoiceListResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "list")
	defer span.End()

	query := invoicing.InvoiceFilter{
		SortBy:    filter.OrderBy,
		SortOrder: filter.OrderDir,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}
	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid client ID format")
		}
		query.ClientID = &clientID
	}
	if filter.Status != "" {
		status := invoicing.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Unknown invoice status: %q", filter.Status))
		}
		query.Status = &status
	}

	var (
		invoices []*invoicing.Invoice
		total    int64
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoices, total, err = repos.Invoices().FindAll(ctx, query)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &InvoiceListResult{
		Invoices: make([]InvoiceResponse, len(invoices)),
		Total:    total,
		Page:     max(filter.Page, 1),
		PageSize: filter.PageSize,
	}
	for i, inv := range invoices {
		result.Invoices[i] = ToInvoiceResponse(inv)
	}
	return result, nil
}

// ChangeStatus records a status reported by the authority flow. Only moves
// listed in the transition table are accepted.
func (s *LifecycleService) ChangeStatus(ctx context.Context, id string, req ChangeStatusRequest) (resp *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", OpChangeStatus)
	defer span.End()
	defer func() { s.observe(ctx, span, OpChangeStatus, err) }()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, id,
		telemetry.SpanAttrInvoiceStatus, req.Status,
	)

	var inv *invoicing.Invoice
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if inv, err = repos.Invoices().FindByIDForUpdate(ctx, id); err != nil {
			return notFound(err, "Invoice not found")
		}
		if err := inv.TransitionTo(invoicing.InvoiceStatus(req.Status)); err != nil {
			return err
		}
		return repos.Invoices().Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Invoice status changed",
		zap.String("invoice_id", inv.ID),
		zap.String("status", inv.Status.String()),
	)
	out := ToInvoiceResponse(inv)
	return &out, nil
}

func (s *LifecycleService) organization(ctx context.Context) (*organization.Profile, error) {
	org, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, notFound(err, "Organization profile not found")
	}
	return org, nil
}

// submission reads the QR code and validation messages from an accepted response
func (s *LifecycleService) submission(log *zap.Logger, doc *invoicing.Document, res compliance.Result) invoicing.Submission {
	qr, ok := compliance.ExtractQRCode(res.Data)
	if ok {
		log.Info("QR code received from the authority", zap.String("uuid", doc.UUID))
	} else {
		log.Warn("Authority response carries no QR code", zap.String("uuid", doc.UUID))
	}
	errs, warnings := compliance.ExtractValidationMessages(res.Data)
	return invoicing.Submission{
		Document:        doc,
		QRCode:          qr,
		Response:        res.Data,
		ErrorMessages:   errs,
		WarningMessages: warnings,
	}
}

// archiveResponse stores the response and returns its key, or "" when archiving fails
func (s *LifecycleService) archiveResponse(ctx context.Context, log *zap.Logger, invoiceUUID string, body []byte) string {
	key, err := s.archive.Archive(ctx, invoiceUUID, body)
	if err != nil {
		log.Warn("Failed to archive authority response", zap.String("uuid", invoiceUUID), zap.Error(err))
		return ""
	}
	return key
}

func (s *LifecycleService) observe(ctx context.Context, span trace.Span, operation string, err error) {
	outcome := telemetry.OutcomeSuccess
	var domainErr *shared.DomainError
	switch {
	case err == nil:
		telemetry.SetOK(span)
	case errors.As(err, &domainErr):
		outcome = telemetry.OutcomeRejected
		telemetry.RecordError(span, err)
	default:
		outcome = telemetry.OutcomeError
		telemetry.RecordError(span, err)
	}
	s.metrics.RecordOperation(ctx, operation, outcome)
}

func resolveUser(ctx context.Context, repos TransactionalRepositories, id *uuid.UUID) (uuid.UUID, error) {
	if id == nil || *id == uuid.Nil {
		return uuid.Nil, shared.NewDomainError(shared.CodeNotFound, "User not found")
	}
	user, err := repos.Users().FindByID(ctx, *id)
	if err != nil {
		return uuid.Nil, notFound(err, "User not found")
	}
	return user.ID, nil
}

func resolveClient(ctx context.Context, repos TransactionalRepositories, id uuid.UUID) (*partner.Client, error) {
	client, err := repos.Clients().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Client not found")
	}
	return client, nil
}

func resolveAccount(ctx context.Context, repos TransactionalRepositories, id uuid.UUID) (*partner.Account, error) {
	account, err := repos.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Account not found")
	}
	return account, nil
}

func linkInvoice(ctx context.Context, links partner.InvoiceLinkRepository, inv *invoicing.Invoice) error {
	if err := links.LinkAccount(ctx, inv.AccountID, inv.ID); err != nil {
		return fmt.Errorf("link account: %w", err)
	}
	if err := links.LinkClient(ctx, inv.ClientID, inv.ID); err != nil {
		return fmt.Errorf("link client: %w", err)
	}
	return nil
}

// notFound replaces a repository not-found error with a message naming the resource
func notFound(err error, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(shared.CodeNotFound, message)
	}
	return err
}
