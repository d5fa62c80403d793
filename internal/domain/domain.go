package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollaborationStatus is the lifecycle status of a brand collaboration.
type CollaborationStatus string

const (
	StatusLead           CollaborationStatus = "Lead"
	StatusNegotiating    CollaborationStatus = "Negotiating"
	StatusConfirmed      CollaborationStatus = "Confirmed"
	StatusInProduction   CollaborationStatus = "InProduction"
	StatusPosted         CollaborationStatus = "Posted"
	StatusPaymentPending CollaborationStatus = "PaymentPending"
	StatusOverdue        CollaborationStatus = "Overdue"
	StatusPaid           CollaborationStatus = "Paid"
	StatusClosed         CollaborationStatus = "Closed"
)

// CollaborationStatuses lists every status in lifecycle order.
var CollaborationStatuses = []CollaborationStatus{
	StatusLead,
	StatusNegotiating,
	StatusConfirmed,
	StatusInProduction,
	StatusPosted,
	StatusPaymentPending,
	StatusOverdue,
	StatusPaid,
	StatusClosed,
}

func (s CollaborationStatus) Valid() bool {
	for _, known := range CollaborationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus is derived from an expectation's credits; it is never stored.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPartial   PaymentStatus = "Partial"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentOverdue   PaymentStatus = "Overdue"
)

// CommunicationChannel identifies where a conversation happened.
type CommunicationChannel string

const (
	ChannelEmail     CommunicationChannel = "Email"
	ChannelInstagram CommunicationChannel = "Instagram"
	ChannelWhatsApp  CommunicationChannel = "WhatsApp"
	ChannelPhone     CommunicationChannel = "Phone"
	ChannelInPerson  CommunicationChannel = "InPerson"
	ChannelOther     CommunicationChannel = "Other"
)

func (c CommunicationChannel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelInstagram, ChannelWhatsApp, ChannelPhone, ChannelInPerson, ChannelOther:
		return true
	}
	return false
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"created_at" format:"date-time"`
}

type Brand struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	ContactName    *string `json:"contact_name,omitempty"`
	ContactEmail   *string `json:"contact_email,omitempty"`
	ContactChannel *string `json:"contact_channel,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at" format:"date-time"`
}

type Collaboration struct {
	ID               string              `json:"id"`
	UserID           string              `json:"user_id"`
	BrandID          string              `json:"brand_id"`
	Title            string              `json:"title"`
	Platform         string              `json:"platform"`
	DeliverablesText *string             `json:"deliverables_text,omitempty"`
	AgreedAmount     *decimal.Decimal    `json:"agreed_amount,omitempty"`
	Currency         string              `json:"currency"`
	DeadlineDate     *string             `json:"deadline_date,omitempty" format:"date"`
	PostingDate      *string             `json:"posting_date,omitempty" format:"date"`
	Status           CollaborationStatus `json:"status" enum:"Lead,Negotiating,Confirmed,InProduction,Posted,PaymentPending,Overdue,Paid,Closed"`
	CreatedAt        string              `json:"created_at" format:"date-time"`
	UpdatedAt        string              `json:"updated_at" format:"date-time"`
}

type PaymentExpectation struct {
	ID              string          `json:"id"`
	CollaborationID string          `json:"collaboration_id"`
	ExpectedAmount  decimal.Decimal `json:"expected_amount"`
	PromisedDate    *string         `json:"promised_date,omitempty" format:"date"`
	PaymentMethod   *string         `json:"payment_method,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       string          `json:"created_at" format:"date-time"`

	// Credits are loaded alongside the expectation when the caller needs
	// derived status; persistence never writes this field.
	Credits []PaymentCredit `json:"-"`
}

type PaymentCredit struct {
	ID                   string          `json:"id"`
	PaymentExpectationID string          `json:"payment_expectation_id"`
	CreditedAmount       decimal.Decimal `json:"credited_amount"`
	CreditedDate         string          `json:"credited_date" format:"date"`
	ReferenceNote        *string         `json:"reference_note,omitempty"`
	CreatedAt            string          `json:"created_at" format:"date-time"`
}

type ConversationLog struct {
	ID              string               `json:"id"`
	CollaborationID string               `json:"collaboration_id"`
	Channel         CommunicationChannel `json:"channel" enum:"Email,Instagram,WhatsApp,Phone,InPerson,Other"`
	MessageText     string               `json:"message_text"`
	CreatedAt       string               `json:"created_at" format:"date-time"`
}

type FileAttachment struct {
	ID               string `json:"id"`
	CollaborationID  string `json:"collaboration_id"`
	FilePath         string `json:"file_path"`
	FileType         string `json:"file_type"`
	OriginalFilename string `json:"original_filename"`
	CreatedAt        string `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	UserID     string `json:"user_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

// DateLayout is the storage format for date-only fields.
const DateLayout = "2006-01-02"

// ParseDate parses a date-only field. The second return is false when the
// value is nil, empty or malformed; callers treat that as "not set".
func ParseDate(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as a date-only string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
