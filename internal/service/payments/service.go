package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
)

// ErrInvalid marks rejected payment input.
var ErrInvalid = errors.New("invalid payment input")

// PaymentStore is the persistence surface the payment service needs.
type PaymentStore interface {
	Insert(ctx context.Context, payment models.Payment) (models.Payment, error)
	List(ctx context.Context, customerID, customerMobile string) ([]models.Payment, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	Update(ctx context.Context, id string, payment models.Payment) (*models.Payment, error)
	Delete(ctx context.Context, id string) error
}

// CustomerStore resolves payment customers.
type CustomerStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Service records cash payments against customers.
type Service struct {
	store     PaymentStore
	customers CustomerStore
	logger    *zap.Logger
}

// NewService wires a new payment service.
func NewService(store PaymentStore, customers CustomerStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, customers: customers, logger: logger}
}

// List returns payments visible to the caller. Consumers only see their own.
func (s *Service) List(ctx context.Context, caller models.Identity, customerID, customerMobile string) ([]models.Payment, error) {
	if caller.Role == models.RoleConsumer {
		customerID = caller.UserID
		customerMobile = ""
	}
	return s.store.List(ctx, customerID, customerMobile)
}

// Record validates and stores a payment; the customer's stored name and
// mobile override whatever the client sent.
func (s *Service) Record(ctx context.Context, input models.PaymentInput) (models.Payment, error) {
	if input.Amount <= 0 {
		return models.Payment{}, fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		return models.Payment{}, err
	}

	customerID, err := primitive.ObjectIDFromHex(input.CustomerID)
	if err != nil {
		return models.Payment{}, fmt.Errorf("%w: malformed customer id", ErrInvalid)
	}

	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = models.MethodCash
	}
	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	payment := models.Payment{
		CustomerID:      customerID,
		CustomerName:    customer.Name,
		CustomerMobile:  customer.Mobile,
		Amount:          input.Amount,
		PaymentDate:     paymentDate,
		PaymentType:     paymentType,
		Notes:           input.Notes,
		ReferenceNumber: input.ReferenceNumber,
	}

	created, err := s.store.Insert(ctx, payment)
	if err != nil {
		return models.Payment{}, err
	}
	s.logger.Info("payment recorded",
		zap.String("id", created.ID.Hex()),
		zap.Float64("amount", created.Amount))
	return created, nil
}

// Get returns one payment by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.store.FindByID(ctx, id)
}

// Update replaces a payment's mutable fields.
func (s *Service) Update(ctx context.Context, id string, input models.PaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Amount = input.Amount
	if !input.PaymentDate.IsZero() {
		existing.PaymentDate = input.PaymentDate
	}
	if input.PaymentType != "" {
		existing.PaymentType = input.PaymentType
	}
	existing.Notes = input.Notes
	existing.ReferenceNumber = input.ReferenceNumber

	return s.store.Update(ctx, id, *existing)
}

// Delete removes a payment.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
