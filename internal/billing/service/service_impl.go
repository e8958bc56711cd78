package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/billing/domain"
	"github.com/smallbiznis/vetledger/internal/billing/format"
	"github.com/smallbiznis/vetledger/internal/billing/session"
	"github.com/smallbiznis/vetledger/internal/config"
	treatmentdomain "github.com/smallbiznis/vetledger/internal/treatment/domain"
	"github.com/smallbiznis/vetledger/pkg/db/option"
	"github.com/smallbiznis/vetledger/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Cfg       config.Config
	Treatment treatmentdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	cfg   config.BillingConfig

	invoicerepo repository.Repository[domain.Invoice]
	treatment   treatmentdomain.Service
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billing.service"),
		genID: p.GenID,
		cfg:   p.Cfg.Billing,

		invoicerepo: repository.ProvideStore[domain.Invoice](p.DB),
		treatment:   p.Treatment,
	}
}

// NewSession opens an invoice editing session seeded with the pet's
// treatment history as candidate lines, optionally filtered by reason.
func (s *Service) NewSession(ctx context.Context, petID, clientID, reasonFilter string) (*session.Session, error) {
	records, err := s.treatment.History(ctx, treatmentdomain.HistoryRequest{
		PetID:    petID,
		ClientID: clientID,
	})
	if err != nil {
		return nil, err
	}
	candidates := session.CandidatesFromHistory(records, reasonFilter)
	return session.New(s.genID, s.cfg.TaxRate, candidates), nil
}

func (s *Service) Save(ctx context.Context, draft domain.Draft) (domain.Invoice, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(draft.ClientID))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidRef
	}
	petID, err := snowflake.ParseString(strings.TrimSpace(draft.PetID))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidRef
	}

	dateIssued := draft.DateIssued.UTC()
	if dateIssued.IsZero() {
		dateIssued = time.Now().UTC()
	}

	var saved domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.nextInvoiceSeq(ctx, tx, dateIssued)
		if err != nil {
			return err
		}
		invoiceNo, err := format.FormatInvoiceNumber(s.cfg.InvoiceNumberTemplate, dateIssued, seq)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		invoice := domain.Invoice{
			ID:            s.genID.Generate(),
			InvoiceNo:     invoiceNo,
			InvoiceSeq:    seq,
			ClientID:      clientID,
			PetID:         petID,
			DateIssued:    dateIssued,
			Reason:        strings.TrimSpace(draft.Reason),
			Veterinarian:  strings.TrimSpace(draft.Veterinarian),
			Notes:         strings.TrimSpace(draft.Notes),
			Currency:      s.cfg.Currency,
			SubtotalCents: draft.SubtotalCents,
			TaxCents:      draft.TaxCents,
			TotalCents:    draft.TotalCents,
			TaxRate:       draft.TaxRate,
			PaymentStatus: draft.PaymentStatus,
			ReceivedBy:    strings.TrimSpace(draft.ReceivedBy),
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		applyPayment(&invoice, draft)
		for _, line := range draft.Lines {
			line.InvoiceID = invoice.ID
			if line.CreatedAt.IsZero() {
				line.CreatedAt = now
			}
			invoice.LineItems = append(invoice.LineItems, line)
		}

		if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
			return err
		}
		saved = invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice saved",
		zap.String("invoice_no", saved.InvoiceNo),
		zap.Int64("total_cents", saved.TotalCents),
		zap.String("payment_status", string(saved.PaymentStatus)),
	)
	return saved, nil
}

// GetByInvoiceNo re-locates an invoice through its globally unique number.
// Invoices never need composite-key resolution.
func (s *Service) GetByInvoiceNo(ctx context.Context, invoiceNo string) (domain.Invoice, error) {
	invoiceNo = strings.TrimSpace(invoiceNo)
	if invoiceNo == "" {
		return domain.Invoice{}, domain.ErrInvalidRef
	}

	var invoice domain.Invoice
	err := s.db.WithContext(ctx).
		// Line IDs are generation-ordered, so ordering by id reproduces the
		// order the lines were saved in.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("invoice_no = ?", invoiceNo).
		Limit(1).
		Find(&invoice).Error
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.ID == 0 {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) Update(ctx context.Context, invoiceNo string, version int64, draft domain.Draft) (domain.Invoice, error) {
	var updated domain.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Invoice
		res := tx.WithContext(ctx).Where("invoice_no = ?", strings.TrimSpace(invoiceNo)).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if existing.ID == 0 {
			return domain.ErrNotFound
		}
		if existing.Version != version {
			return domain.ErrConflict
		}

		updated = existing
		updated.Reason = strings.TrimSpace(draft.Reason)
		updated.Veterinarian = strings.TrimSpace(draft.Veterinarian)
		updated.Notes = strings.TrimSpace(draft.Notes)
		updated.ReceivedBy = strings.TrimSpace(draft.ReceivedBy)
		updated.SubtotalCents = draft.SubtotalCents
		updated.TaxCents = draft.TaxCents
		updated.TotalCents = draft.TotalCents
		updated.TaxRate = draft.TaxRate
		updated.PaymentStatus = draft.PaymentStatus
		updated.Version = existing.Version + 1
		updated.UpdatedAt = time.Now().UTC()
		updated.LineItems = nil
		applyPayment(&updated, draft)

		guarded := tx.WithContext(ctx).
			Model(&domain.Invoice{}).
			Where("id = ? AND version = ?", existing.ID, version).
			Select("*").
			Omit("id", "invoice_no", "invoice_seq", "created_at", "LineItems").
			Updates(&updated)
		if guarded.Error != nil {
			return guarded.Error
		}
		if guarded.RowsAffected == 0 {
			return domain.ErrConflict
		}

		// Line items are owned by the invoice: replace them as a unit.
		if err := tx.WithContext(ctx).Where("invoice_id = ?", existing.ID).Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, line := range draft.Lines {
			if line.ID == 0 {
				line.ID = s.genID.Generate()
			}
			line.InvoiceID = existing.ID
			if line.CreatedAt.IsZero() {
				line.CreatedAt = now
			}
			if err := tx.WithContext(ctx).Create(&line).Error; err != nil {
				return err
			}
			updated.LineItems = append(updated.LineItems, line)
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, invoiceNo string, version int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Invoice
		res := tx.WithContext(ctx).Where("invoice_no = ?", strings.TrimSpace(invoiceNo)).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if existing.ID == 0 {
			return domain.ErrNotFound
		}
		if existing.Version != version {
			return domain.ErrConflict
		}

		// Owned line items go with the invoice.
		if err := tx.WithContext(ctx).Where("invoice_id = ?", existing.ID).Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		guarded := tx.WithContext(ctx).
			Where("id = ? AND version = ?", existing.ID, version).
			Delete(&domain.Invoice{})
		if guarded.Error != nil {
			return guarded.Error
		}
		if guarded.RowsAffected == 0 {
			return domain.ErrConflict
		}
		return nil
	})
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) ([]domain.Invoice, error) {
	filter := &domain.Invoice{PaymentStatus: req.Status}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidRef
		}
		filter.ClientID = clientID
	}
	if raw := strings.TrimSpace(req.PetID); raw != "" {
		petID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidRef
		}
		filter.PetID = petID
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			Allow: map[string]bool{"date_issued": true},
			Field: "date_issued",
			Desc:  true,
		}),
	}
	if req.IssuedFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "date_issued",
			Operator: option.GTE,
			Value:    *req.IssuedFrom,
		}))
	}
	if req.IssuedTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "date_issued",
			Operator: option.LTE,
			Value:    *req.IssuedTo,
		}))
	}
	if req.PageSize > 0 {
		options = append(options, option.ApplyPagination(req.Pagination))
	}

	items, err := s.invoicerepo.Find(ctx, filter, options...)
	if err != nil {
		return nil, err
	}
	if req.PageSize > 0 && len(items) > req.PageSize {
		items = items[:req.PageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

// nextInvoiceSeq returns the next sequence within the issue year. The first
// invoice of a year restarts the sequence at 1. The current top row is read
// FOR UPDATE so concurrent saves in the same year serialize on it; the
// unique index on invoice_no backstops the first invoice of a year, where
// there is no row to lock yet.
func (s *Service) nextInvoiceSeq(ctx context.Context, tx *gorm.DB, issuedAt time.Time) (int64, error) {
	yearStart := time.Date(issuedAt.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	top := tx.WithContext(ctx).
		Model(&domain.Invoice{}).
		Select("invoice_seq").
		Where("date_issued >= ? AND date_issued < ?", yearStart, yearEnd).
		Order("invoice_seq DESC").
		Limit(1)
	if tx.Dialector.Name() != "sqlite" {
		// sqlite serializes writers on its own and rejects FOR UPDATE.
		top = top.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var current int64
	if err := top.Scan(&current).Error; err != nil {
		return 0, err
	}
	return current + 1, nil
}

func applyPayment(invoice *domain.Invoice, draft domain.Draft) {
	invoice.PaymentMethod = nil
	invoice.PartialCents = nil
	if method := strings.TrimSpace(draft.PaymentMethod); method != "" && draft.PaymentStatus != domain.PaymentUnpaid {
		invoice.PaymentMethod = &method
	}
	if draft.PaymentStatus == domain.PaymentPartial {
		partial := draft.PartialCents
		invoice.PartialCents = &partial
	}
}
