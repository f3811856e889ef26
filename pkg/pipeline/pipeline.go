// Package pipeline doğrulanmış bir form gönderimini tek bir bilet isteğine
// çevirir. Otomatik tekrar yoktur; her açık gönderim en fazla bir çağrıdır.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/ticketid"
)

const MsgSubmissionFailed = "Não foi possível enviar sua solicitação. Tente novamente."

var (
	ErrSubmissionFailed = errors.New(MsgSubmissionFailed)
	ErrSubmitInFlight   = errors.New("um envio já está em andamento")
)

// Receipt bilet servisinin döndürdüğü asgari onay.
type Receipt struct {
	TicketNumber     int       `json:"ticketNumber"`
	CreatedAt        time.Time `json:"createdAt"`
	ApprovalRequired bool      `json:"approvalRequired"`
}

// TicketCreator bilet oluşturan servis. approvalRequired değerini formun
// bağlantısından kendisi belirler.
type TicketCreator interface {
	CreateTicket(ctx context.Context, publicURL string, payload *formfill.Payload) (Receipt, error)
}

// Confirmation gönderen kişiye gösterilen sonuç.
type Confirmation struct {
	Receipt
	TicketID string `json:"ticketId"`
}

// Submitter tek bir gönderim kontrolüne aittir; aynı anda ikinci çağrıyı reddeder.
type Submitter struct {
	creator TicketCreator
	loc     *time.Location

	mu       sync.Mutex
	inFlight bool
}

// New loc bilet numarasının tarih kısmı için referans saat dilimidir.
func New(creator TicketCreator, loc *time.Location) *Submitter {
	return &Submitter{creator: creator, loc: loc}
}

func (s *Submitter) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Submit formu doğrular; geçersizse *formfill.ValidationError döner ve servis
// çağrılmaz. Servis hatası veya beklenmeyen cevap ErrSubmissionFailed olarak döner.
func (s *Submitter) Submit(ctx context.Context, fill *formfill.Fill) (Confirmation, error) {
	if err := fill.Check(); err != nil {
		return Confirmation{}, err
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Confirmation{}, ErrSubmitInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	receipt, err := s.creator.CreateTicket(ctx, fill.Form().PublicURL, fill.Package())
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if receipt.TicketNumber <= 0 || receipt.CreatedAt.IsZero() {
		return Confirmation{}, fmt.Errorf("%w: beklenmeyen bilet cevabı %+v", ErrSubmissionFailed, receipt)
	}
	return Confirmation{
		Receipt:  receipt,
		TicketID: ticketid.Format(receipt.CreatedAt, receipt.TicketNumber, s.loc),
	}, nil
}
