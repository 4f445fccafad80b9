package milk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
)

var (
	// ErrForbidden marks an operation the caller may not perform on this
	// record.
	ErrForbidden = errors.New("not permitted on this transaction")
	// ErrInvalid marks rejected input.
	ErrInvalid = errors.New("invalid transaction input")
)

// TransactionStore is the persistence surface the milk service needs.
type TransactionStore interface {
	Insert(ctx context.Context, tx models.MilkTransaction) (models.MilkTransaction, error)
	FindByID(ctx context.Context, id string) (*models.MilkTransaction, error)
	List(ctx context.Context, mobile string) ([]models.MilkTransaction, error)
	Update(ctx context.Context, id string, input models.TransactionInput) (*models.MilkTransaction, error)
	Delete(ctx context.Context, id string) error
}

// Service records and maintains milk transactions. Consumers may only see
// and touch transactions carrying their own phone; the transaction kind is
// fixed at creation and never updated.
type Service struct {
	store  TransactionStore
	logger *zap.Logger
}

// NewService wires a new milk transaction service.
func NewService(store TransactionStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns transactions visible to the caller.
func (s *Service) List(ctx context.Context, caller models.Identity) ([]models.MilkTransaction, error) {
	mobile := ""
	if caller.Role == models.RoleConsumer {
		mobile = strings.TrimSpace(caller.Mobile)
	}
	return s.store.List(ctx, mobile)
}

// RecordSale stores a new sale transaction.
func (s *Service) RecordSale(ctx context.Context, input models.TransactionInput) (models.MilkTransaction, error) {
	return s.record(ctx, models.KindSale, input)
}

// RecordPurchase stores a new purchase transaction.
func (s *Service) RecordPurchase(ctx context.Context, input models.TransactionInput) (models.MilkTransaction, error) {
	return s.record(ctx, models.KindPurchase, input)
}

func (s *Service) record(ctx context.Context, kind models.TransactionKind, input models.TransactionInput) (models.MilkTransaction, error) {
	if err := validateInput(&input); err != nil {
		return models.MilkTransaction{}, err
	}

	tx := models.MilkTransaction{
		Type:           kind,
		Date:           input.Date,
		Quantity:       input.Quantity,
		PricePerLiter:  input.PricePerLiter,
		TotalAmount:    input.TotalAmount,
		Buyer:          input.Buyer,
		BuyerPhone:     input.BuyerPhone,
		Seller:         input.Seller,
		SellerPhone:    input.SellerPhone,
		Notes:          input.Notes,
		PaymentType:    input.PaymentType,
		FixedPrice:     input.FixedPrice,
		AmountReceived: input.AmountReceived,
	}

	created, err := s.store.Insert(ctx, tx)
	if err != nil {
		return models.MilkTransaction{}, err
	}
	s.logger.Info("transaction recorded",
		zap.String("id", created.ID.Hex()),
		zap.String("type", string(kind)))
	return created, nil
}

// Update replaces a transaction's mutable fields. The stored kind is kept as
// is; consumers may only update their own transactions.
func (s *Service) Update(ctx context.Context, caller models.Identity, id string, input models.TransactionInput) (*models.MilkTransaction, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mayModify(caller, existing) {
		return nil, ErrForbidden
	}

	return s.store.Update(ctx, id, input)
}

// Delete removes a transaction under the same ownership rule as Update.
func (s *Service) Delete(ctx context.Context, caller models.Identity, id string) error {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !mayModify(caller, existing) {
		return ErrForbidden
	}

	return s.store.Delete(ctx, id)
}

func mayModify(caller models.Identity, tx *models.MilkTransaction) bool {
	if caller.Role != models.RoleConsumer {
		return true
	}
	mobile := strings.TrimSpace(caller.Mobile)
	return mobile != "" &&
		(strings.TrimSpace(tx.BuyerPhone) == mobile || strings.TrimSpace(tx.SellerPhone) == mobile)
}

func validateInput(input *models.TransactionInput) error {
	switch {
	case input.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalid)
	case input.Quantity < 0:
		return fmt.Errorf("%w: quantity must be non-negative", ErrInvalid)
	case input.PricePerLiter < 0:
		return fmt.Errorf("%w: pricePerLiter must be non-negative", ErrInvalid)
	case input.TotalAmount < 0:
		return fmt.Errorf("%w: totalAmount must be non-negative", ErrInvalid)
	}
	if input.PaymentType != "" && input.PaymentType != models.PaymentCash && input.PaymentType != models.PaymentCredit {
		return fmt.Errorf("%w: unknown payment type %q", ErrInvalid, input.PaymentType)
	}

	input.BuyerPhone = strings.TrimSpace(input.BuyerPhone)
	input.SellerPhone = strings.TrimSpace(input.SellerPhone)
	return nil
}
