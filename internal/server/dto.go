package server

import (
	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/engine"
)

// Request payloads

type RegisterRequest struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password" minLength:"8"`
}

type LoginRequest struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password"`
}

type CreateBrandRequest struct {
	Name           string  `json:"name"`
	ContactName    *string `json:"contact_name,omitempty"`
	ContactEmail   *string `json:"contact_email,omitempty"`
	ContactChannel *string `json:"contact_channel,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type UpdateBrandRequest struct {
	Name           *string `json:"name,omitempty"`
	ContactName    *string `json:"contact_name,omitempty"`
	ContactEmail   *string `json:"contact_email,omitempty"`
	ContactChannel *string `json:"contact_channel,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type CreateCollaborationRequest struct {
	BrandID          string  `json:"brand_id"`
	Title            string  `json:"title"`
	Platform         string  `json:"platform"`
	DeliverablesText *string `json:"deliverables_text,omitempty"`
	AgreedAmount     *string `json:"agreed_amount,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	DeadlineDate     *string `json:"deadline_date,omitempty" format:"date"`
	PostingDate      *string `json:"posting_date,omitempty" format:"date"`
}

type UpdateCollaborationRequest struct {
	Title            *string `json:"title,omitempty"`
	Platform         *string `json:"platform,omitempty"`
	DeliverablesText *string `json:"deliverables_text,omitempty"`
	AgreedAmount     *string `json:"agreed_amount,omitempty"`
	Currency         *string `json:"currency,omitempty"`
	DeadlineDate     *string `json:"deadline_date,omitempty" format:"date"`
	PostingDate      *string `json:"posting_date,omitempty" format:"date"`
}

type ChangeStatusRequest struct {
	Status      string  `json:"status" enum:"Lead,Negotiating,Confirmed,InProduction,Posted,PaymentPending,Overdue,Paid,Closed"`
	PostingDate *string `json:"posting_date,omitempty" format:"date"`
}

type CreateExpectationRequest struct {
	ExpectedAmount string  `json:"expected_amount"`
	PromisedDate   *string `json:"promised_date,omitempty" format:"date"`
	PaymentMethod  *string `json:"payment_method,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type AddCreditRequest struct {
	CreditedAmount string  `json:"credited_amount"`
	CreditedDate   string  `json:"credited_date" format:"date"`
	ReferenceNote  *string `json:"reference_note,omitempty"`
}

type AddConversationRequest struct {
	Channel     string `json:"channel" enum:"Email,Instagram,WhatsApp,Phone,InPerson,Other"`
	MessageText string `json:"message_text"`
}

type CreateAPIKeyRequest struct {
	Name string `json:"name,omitempty"`
}

// Response payloads

type TokenResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type WhoAmIResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Source string `json:"source"`
}

type BrandListResponse struct {
	Brands []domain.Brand `json:"brands"`
}

type CollaborationListResponse struct {
	Collaborations []domain.Collaboration `json:"collaborations"`
}

type PaymentListResponse struct {
	Payments []engine.PaymentView `json:"payments"`
}

type OverdueListResponse struct {
	Overdue []engine.OverduePayment `json:"overdue"`
}

type ConversationListResponse struct {
	Conversations []domain.ConversationLog `json:"conversations"`
}

type FileListResponse struct {
	Files []domain.FileAttachment `json:"files"`
}

type APIKeyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Key       string `json:"key"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
