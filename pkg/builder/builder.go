// Package builder yazarlık oturumunu tutar: düzenlenen tanım, seçili öğe,
// seçenek tamponu ve kaydetme akışı. Model değişiklikleri formdef/pagedef'in
// saf fonksiyonlarıyla yapılır; seçim imleci yalnızca burada yaşar.
package builder

import (
	"context"
	"errors"
	"sync"

	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/pagedef"

	"github.com/google/uuid"
)

const (
	MsgSaveFailed = "Erro ao salvar. Tente novamente."
	MsgLoadFailed = "Não foi possível carregar o registro."
)

var (
	// ErrNotFound depolama katmanının "kayıt yok" cevabı bu hatayı sarmalamalıdır.
	ErrNotFound     = errors.New("registro não encontrado")
	ErrLoadFailed   = errors.New(MsgLoadFailed)
	ErrSaveInFlight = errors.New("um salvamento já está em andamento")
	ErrUnknownItem  = errors.New("item não encontrado na sessão")
	ErrNoOptions    = errors.New("o campo selecionado não aceita opções")
)

// UserMessenger kullanıcıya gösterilebilir mesaj taşıyan hatalar.
type UserMessenger interface {
	UserMessage() string
}

// SaveError kaydetme başarısız olduğunda kullanıcıya gösterilecek mesaj.
type SaveError struct {
	Message string
	Err     error
}

func (e *SaveError) Error() string { return e.Message }
func (e *SaveError) Unwrap() error { return e.Err }

// saveFailure depodan gelen mesajı aynen kullanır; yoksa genel mesaj.
func saveFailure(err error) *SaveError {
	var um UserMessenger
	if errors.As(err, &um) && um.UserMessage() != "" {
		return &SaveError{Message: um.UserMessage(), Err: err}
	}
	return &SaveError{Message: MsgSaveFailed, Err: err}
}

// FormStore formların depolama sözleşmesi.
type FormStore interface {
	GetForm(ctx context.Context, id uint) (formdef.Definition, error)
	CreateForm(ctx context.Context, d formdef.Definition) (formdef.Definition, error)
	UpdateForm(ctx context.Context, d formdef.Definition) (formdef.Definition, error)
}

// PageStore sayfaların depolama sözleşmesi.
type PageStore interface {
	GetPage(ctx context.Context, id uint) (pagedef.Definition, error)
	CreatePage(ctx context.Context, d pagedef.Definition) (pagedef.Definition, error)
	UpdatePage(ctx context.Context, d pagedef.Definition, allowSlugChange bool) (pagedef.Definition, error)
}

// NewSessionID oturum kimliği üretir.
var NewSessionID = uuid.NewString

// Confirm kaydedilmemiş değişiklikleri atmadan önce kullanıcıya sorar.
type Confirm func() bool

// saveGuard aynı oturumda eşzamanlı kaydetmeyi engeller.
type saveGuard struct {
	mu     sync.Mutex
	saving bool
}

func (g *saveGuard) begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saving {
		return false
	}
	g.saving = true
	return true
}

func (g *saveGuard) end() {
	g.mu.Lock()
	g.saving = false
	g.mu.Unlock()
}

func (g *saveGuard) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saving
}

func loadFailure(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return errors.Join(ErrLoadFailed, err)
}
