package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionKind discriminates milk sales from milk purchases. The kind of a
// transaction never changes after creation.
type TransactionKind string

const (
	KindSale     TransactionKind = "sale"
	KindPurchase TransactionKind = "purchase"
)

// PaymentType enumerates how a milk transaction was settled.
type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentCredit PaymentType = "credit"
)

// MilkTransaction records one milk sale or purchase. TotalAmount is stored as
// submitted and is not recomputed from Quantity*PricePerLiter.
type MilkTransaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type          TransactionKind    `bson:"type" json:"type"`
	Date          time.Time          `bson:"date" json:"date"`
	Quantity      float64            `bson:"quantity" json:"quantity"`
	PricePerLiter float64            `bson:"pricePerLiter" json:"pricePerLiter"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	Buyer         string             `bson:"buyer,omitempty" json:"buyer,omitempty"`
	BuyerPhone    string             `bson:"buyerPhone,omitempty" json:"buyerPhone,omitempty"`
	Seller        string             `bson:"seller,omitempty" json:"seller,omitempty"`
	SellerPhone   string             `bson:"sellerPhone,omitempty" json:"sellerPhone,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentType   PaymentType        `bson:"paymentType,omitempty" json:"paymentType,omitempty"`
	FixedPrice    float64            `bson:"fixedPrice,omitempty" json:"fixedPrice,omitempty"`
	AmountReceived float64           `bson:"amountReceived,omitempty" json:"amountReceived,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TransactionInput carries the user-supplied fields for creating or updating
// a milk transaction. The kind is fixed by the endpoint, never by the client.
type TransactionInput struct {
	Date           time.Time   `json:"date" binding:"required"`
	Quantity       float64     `json:"quantity" binding:"min=0"`
	PricePerLiter  float64     `json:"pricePerLiter" binding:"min=0"`
	TotalAmount    float64     `json:"totalAmount" binding:"min=0"`
	Buyer          string      `json:"buyer"`
	BuyerPhone     string      `json:"buyerPhone"`
	Seller         string      `json:"seller"`
	SellerPhone    string      `json:"sellerPhone"`
	Notes          string      `json:"notes"`
	PaymentType    PaymentType `json:"paymentType"`
	FixedPrice     float64     `json:"fixedPrice"`
	AmountReceived float64     `json:"amountReceived"`
}

// FeedPurchase records a fodder expense. Reports only ever sum its amount.
type FeedPurchase struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	Item        string             `bson:"item,omitempty" json:"item,omitempty"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
}
