package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod enumerates how a cash payment was received.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodUPI          PaymentMethod = "upi"
	MethodOther        PaymentMethod = "other"
)

// Payment records money received from a customer outside a milk transaction.
type Payment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID      primitive.ObjectID `bson:"customerId" json:"customerId"`
	CustomerName    string             `bson:"customerName" json:"customerName"`
	CustomerMobile  string             `bson:"customerMobile" json:"customerMobile"`
	Amount          float64            `bson:"amount" json:"amount"`
	PaymentDate     time.Time          `bson:"paymentDate" json:"paymentDate"`
	PaymentType     PaymentMethod      `bson:"paymentType" json:"paymentType"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ReferenceNumber string             `bson:"referenceNumber,omitempty" json:"referenceNumber,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PaymentInput carries the user-supplied fields for recording a payment.
type PaymentInput struct {
	CustomerID      string        `json:"customerId" binding:"required"`
	CustomerName    string        `json:"customerName"`
	CustomerMobile  string        `json:"customerMobile"`
	Amount          float64       `json:"amount" binding:"required,gt=0"`
	PaymentDate     time.Time     `json:"paymentDate"`
	PaymentType     PaymentMethod `json:"paymentType"`
	Notes           string        `json:"notes"`
	ReferenceNumber string        `json:"referenceNumber"`
}
