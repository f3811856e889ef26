package services

import (
	"context"
	"errors"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/pipeline"
	"helpdesk.link/pkg/queryparams"
	"helpdesk.link/repositories"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type TicketServiceError string

func (e TicketServiceError) Error() string       { return string(e) }
func (e TicketServiceError) UserMessage() string { return string(e) }

const (
	ErrTicketNotFound       TicketServiceError = "Chamado não encontrado"
	ErrTicketCreationFailed TicketServiceError = "Não foi possível registrar o chamado"
	ErrTicketNotPending     TicketServiceError = "O chamado não está aguardando aprovação"
	ErrTicketNotApprover    TicketServiceError = "Você não é o aprovador deste chamado"
)

type ITicketService interface {
	pipeline.TicketCreator

	GetTicket(ctx context.Context, id uint) (*models.Ticket, error)
	GetAttachment(ctx context.Context, ticketID, attachmentID uint) (*models.TicketAttachment, error)
	ListPendingApprovals(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ApproveTicket(ctx context.Context, id uint) error
	RejectTicket(ctx context.Context, id uint) error
}

type TicketService struct {
	repo   repositories.ITicketRepository
	forms  IFormService
	lookup ILookupService
	access accessChecker
}

func NewTicketService(forms IFormService) ITicketService {
	return &TicketService{
		repo:   repositories.NewTicketRepository(),
		forms:  forms,
		lookup: NewLookupService(),
		access: accessChecker{users: repositories.NewUserRepository()},
	}
}

// CreateTicket gönderimi sunucu tarafında yeniden doğrular ve bileti yazar.
// Onay gereksinimi formun bağlantısından belirlenir, istemciden alınmaz.
func (s *TicketService) CreateTicket(ctx context.Context, publicURL string, payload *formfill.Payload) (pipeline.Receipt, error) {
	form, err := s.forms.GetFormByKey(ctx, publicURL)
	if err != nil {
		return pipeline.Receipt{}, err
	}
	def := formToDefinition(form)
	fill := formfill.FromPayload(formfill.New(def.Public()), payload)
	if err := fill.Check(); err != nil {
		return pipeline.Receipt{}, err
	}

	linkage := form.Detail.Linkage()
	ticket := buildTicket(form.ID, def.Name, linkage, fill)

	if err := s.repo.Create(ctx, ticket); err != nil {
		configslog.Log.Error("Bilet oluşturulamadı", zap.Uint("form_id", form.ID), zap.Error(err))
		return pipeline.Receipt{}, ErrTicketCreationFailed
	}
	configslog.SLog.Infof("Bilet oluşturuldu: #%d, Form: %d, Onay gerekli: %t", ticket.ID, form.ID, ticket.ApprovalRequired)
	return pipeline.Receipt{
		TicketNumber:     int(ticket.ID),
		CreatedAt:        ticket.CreatedAt,
		ApprovalRequired: ticket.ApprovalRequired,
	}, nil
}

// buildTicket doğrulanmış doldurmadan bilet kaydı hazırlar.
func buildTicket(formID uint, subject string, linkage models.Linkage, fill *formfill.Fill) *models.Ticket {
	pkg := fill.Package()
	userID, groupID := linkage.Columns()
	ticket := &models.Ticket{
		FormID:           formID,
		Subject:          subject,
		Status:           models.TicketOpen,
		ApprovalRequired: linkage.RequiresApproval(),
		ApproverUserID:   userID,
		ApproverGroupID:  groupID,
		Data:             datatypes.JSONMap(pkg.Values),
	}
	if ticket.ApprovalRequired {
		ticket.Status = models.TicketPendingApproval
	}
	for _, fp := range pkg.Files {
		ticket.Attachments = append(ticket.Attachments, models.TicketAttachment{
			FieldID:     fp.FieldID,
			FileName:    fp.File.Name,
			ContentType: fp.File.ContentType,
			Size:        fp.File.Size,
			Data:        fp.File.Data,
		})
	}
	return ticket
}

// canView admin veya bileti onaylayabilecek kişi.
func (s *TicketService) canView(ctx context.Context, t *models.Ticket) (*models.User, error) {
	user, err := s.access.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if isAdmin(user) {
		return user, nil
	}
	if err := s.checkApprover(ctx, t, user.ID); err != nil {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *TicketService) checkApprover(ctx context.Context, t *models.Ticket, userID uint) error {
	if t.ApproverUserID != nil && *t.ApproverUserID == userID {
		return nil
	}
	if t.ApproverGroupID != nil {
		member, err := s.lookup.IsGroupMember(ctx, *t.ApproverGroupID, userID)
		if err != nil {
			return err
		}
		if member {
			return nil
		}
	}
	return ErrTicketNotApprover
}

func (s *TicketService) find(ctx context.Context, id uint) (*models.Ticket, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id uint) (*models.Ticket, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.canView(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TicketService) GetAttachment(ctx context.Context, ticketID, attachmentID uint) (*models.TicketAttachment, error) {
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	a, err := s.repo.FindAttachment(ctx, ticketID, attachmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListPendingApprovals kullanıcının karar verebileceği bekleyen biletler.
func (s *TicketService) ListPendingApprovals(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	user, err := s.access.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	params.Validate()
	groupIDs, err := s.lookup.GroupIDsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	tickets, total, err := s.repo.FindPendingForApprover(ctx, user.ID, groupIDs, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewResult(tickets, params, total), nil
}

func (s *TicketService) ApproveTicket(ctx context.Context, id uint) error {
	return s.decide(ctx, id, models.TicketOpen)
}

func (s *TicketService) RejectTicket(ctx context.Context, id uint) error {
	return s.decide(ctx, id, models.TicketRejected)
}

// decide sadece bağlı kullanıcı veya bağlı grubun üyesi karar verebilir.
func (s *TicketService) decide(ctx context.Context, id uint, status models.TicketStatus) error {
	user, err := s.access.currentUser(ctx)
	if err != nil {
		return err
	}
	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != models.TicketPendingApproval {
		return ErrTicketNotPending
	}
	if err := s.checkApprover(ctx, t, user.ID); err != nil {
		return err
	}
	if err := s.repo.Decide(models.WithUserID(ctx, user.ID), id, status, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTicketNotPending
		}
		return err
	}
	configslog.SLog.Infof("Bilet #%d kararı: %s (Karar veren: %d)", id, status, user.ID)
	return nil
}

var _ ITicketService = (*TicketService)(nil)
