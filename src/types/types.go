package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_OPEN      EventStatus = "open"
	EVENT_CLOSED    EventStatus = "closed"
	EVENT_COMPLETED EventStatus = "completed"
	EVENT_CANCELED  EventStatus = "canceled"
)

type TicketStatus string

const (
	TICKET_PURCHASED TicketStatus = "purchased"
	TICKET_CANCELLED TicketStatus = "cancelled"
	TICKET_EXCHANGED TicketStatus = "exchanged"
	TICKET_REFUNDED  TicketStatus = "refunded"
)

type RefundStatus string

const (
	REFUND_REQUESTED  RefundStatus = "requested"
	REFUND_PROCESSING RefundStatus = "processing"
	REFUND_COMPLETED  RefundStatus = "completed"
	REFUND_FAILED     RefundStatus = "failed"
	REFUND_DENIED     RefundStatus = "denied"
)

// refundStatusRank encodes the forward-only order of the refund pipeline.
// completed, failed and denied share the terminal rank.
var refundStatusRank = map[RefundStatus]int{
	REFUND_REQUESTED:  1,
	REFUND_PROCESSING: 2,
	REFUND_COMPLETED:  3,
	REFUND_FAILED:     3,
	REFUND_DENIED:     3,
}

// IsValidRefundStatus reports whether s is a member of the refund status
// enum. Matching is case-sensitive: "REQUESTED" is not a valid status.
func IsValidRefundStatus(s string) bool {
	_, ok := refundStatusRank[RefundStatus(s)]
	return ok
}

// CanAdvanceRefundStatus reports whether a ticket's refund status may move
// from `from` (nil when no refund has been requested yet) to `to`. The
// pipeline only moves forward and never leaves a terminal state.
func CanAdvanceRefundStatus(from *RefundStatus, to RefundStatus) bool {
	toRank, ok := refundStatusRank[to]
	if !ok {
		return false
	}
	if from == nil {
		return true
	}
	fromRank, ok := refundStatusRank[*from]
	if !ok {
		return false
	}
	return toRank > fromRank
}

type PaymentMethod string

const (
	PAYMENT_METHOD_CARD    PaymentMethod = "card"
	PAYMENT_METHOD_CREDITS PaymentMethod = "credits"
)

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_FAILED   PaymentStatus = "failed"
	PAYMENT_REFUNDED PaymentStatus = "refunded"
)

type PurchaseStatus string

const (
	PURCHASE_PENDING   PurchaseStatus = "pending"
	PURCHASE_COMPLETED PurchaseStatus = "completed"
	PURCHASE_CANCELED  PurchaseStatus = "canceled"
)

type CreditTransactionType string

const (
	CREDIT_REFUND          CreditTransactionType = "refund_credit"
	CREDIT_EXCHANGE        CreditTransactionType = "exchange_credit"
	CREDIT_EXCHANGE_CHARGE CreditTransactionType = "exchange_charge"
	CREDIT_PURCHASE        CreditTransactionType = "purchase"
)

type CheckInStatus string

const (
	CHECKIN_VALID_TODAY CheckInStatus = "VALID_TODAY"
	CHECKIN_WRONG_DAY   CheckInStatus = "WRONG_DAY"
)

// ManualEntryHash is the sentinel a gate client sends instead of a QR hash
// when the ticket reference was typed in by hand. Signature verification is
// skipped for manual entries.
const ManualEntryHash = "manual"

type CreateEventRequestBody struct {
	Title       string `json:"title" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty" binding:"required"`
	DateTime    string `json:"date_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	Deadline    string `json:"deadline" binding:"required,bookabledate,ltdate=DateTime" time_format:"2006-01-02 15:04:05 -07:00"`
	Publish     bool   `json:"publish,omitempty"`
}

type CreateTicketTypeRequestBody struct {
	Name     string  `json:"name" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
	Price    float32 `json:"price" binding:"required"`
	Quantity uint    `json:"quantity" binding:"required"`
	EventID  uint    `json:"event" binding:"required"`
}

type PurchaseItemRequest struct {
	TicketTypeID uint  `json:"ticket_type" binding:"required"`
	Qty          uint8 `json:"qty" binding:"required"`
}

type CreatePurchaseRequestBody struct {
	Items         []PurchaseItemRequest `json:"items" binding:"required,min=1"`
	PaymentMethod PaymentMethod         `json:"payment_method" binding:"required,oneof=card credits"`
	PaymentToken  string                `json:"payment_token,omitempty"`
}

type ExchangeTicketRequestBody struct {
	NewTicketTypeID uint          `json:"new_ticket_type" binding:"required"`
	PaymentMethod   PaymentMethod `json:"payment_method" binding:"required,oneof=card credits"`
	PaymentToken    string        `json:"payment_token,omitempty"`
}

type UpdateRefundStatusRequestBody struct {
	Status string `json:"status" binding:"required"`
}

type AdjustAvailabilityRequestBody struct {
	Delta float64 `json:"delta" binding:"required"`
}

type CheckInScanRequestBody struct {
	// Code carries the encrypted QR payload. When empty the gate staff typed
	// the reference in, and TicketID/Hash are used instead.
	Code     string `json:"code,omitempty"`
	TicketID uint   `json:"ticket_id,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

// QrPayload is the plaintext carried inside an encrypted QR code.
type QrPayload struct {
	TicketID uint   `json:"ticketId"`
	EventID  uint   `json:"eventId"`
	UserID   uint   `json:"userId"`
	Hash     string `json:"hash"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Claims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type RegisterUserRequestBody struct {
	Email string `json:"email" binding:"required"`
}
