package models

import (
	"time"

	"gorm.io/datatypes"
)

type TicketStatus string

const (
	TicketPendingApproval TicketStatus = "pending_approval"
	TicketOpen            TicketStatus = "open"
	TicketRejected        TicketStatus = "rejected"
)

// Ticket public form gönderiminden oluşan destek kaydı. Ticket numarası ID'dir.
type Ticket struct {
	BaseModel
	FormID           uint              `gorm:"index;not null" json:"formId"`
	Subject          string            `gorm:"type:varchar(255)" json:"subject"`
	Status           TicketStatus      `gorm:"type:varchar(30);not null;index" json:"status"`
	ApprovalRequired bool              `gorm:"not null;default:false" json:"approvalRequired"`
	ApproverUserID   *uint             `gorm:"index" json:"approverUserId,omitempty"`
	ApproverGroupID  *uint             `gorm:"index" json:"approverGroupId,omitempty"`
	Data             datatypes.JSONMap `gorm:"type:jsonb" json:"data"`
	DecidedByUserID  *uint             `json:"decidedByUserId,omitempty"`
	DecidedAt        *time.Time        `json:"decidedAt,omitempty"`

	Attachments []TicketAttachment `gorm:"foreignKey:TicketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"attachments,omitempty"`
}

// TicketAttachment gönderimdeki dosya; içerik opak blob olarak saklanır.
type TicketAttachment struct {
	BaseModel
	TicketID    uint   `gorm:"index;not null" json:"ticketId"`
	FieldID     string `gorm:"type:varchar(64);not null" json:"fieldId"`
	FileName    string `gorm:"type:varchar(255)" json:"fileName"`
	ContentType string `gorm:"type:varchar(120)" json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `gorm:"type:bytea" json:"-"`
}
