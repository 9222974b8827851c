// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import "time"

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is a charge for a membership.
type Payment struct {
	ID            string          `json:"_id"`
	User          Ref[User]       `json:"user"`
	Membership    Ref[Membership] `json:"membership"`
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	Status        PaymentStatus   `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId,omitempty"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
}
