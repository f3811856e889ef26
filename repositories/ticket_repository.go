package repositories

import (
	"context"
	"errors"
	"time"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ITicketRepository bilet veritabanı işlemleri.
type ITicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	FindByID(ctx context.Context, id uint) (*models.Ticket, error)
	FindAttachment(ctx context.Context, ticketID, attachmentID uint) (*models.TicketAttachment, error)
	FindPendingForApprover(ctx context.Context, userID uint, groupIDs []uint, params queryparams.ListParams) ([]models.Ticket, int64, error)
	Decide(ctx context.Context, id uint, status models.TicketStatus, decidedBy uint) error
}

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository() ITicketRepository {
	return &TicketRepository{db: configs.GetDB()}
}

func (r *TicketRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create bileti ekleriyle birlikte tek seferde yazar.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if ticket == nil || ticket.FormID == 0 {
		return errors.New("formsuz bilet oluşturulamaz")
	}
	if err := r.getDB(ctx).Create(ticket).Error; err != nil {
		configslog.Log.Error("TicketRepository.Create: DB error", zap.Uint("form_id", ticket.FormID), zap.Error(err))
		return err
	}
	return nil
}

// FindByID ek içerikleri yüklenmez.
func (r *TicketRepository) FindByID(ctx context.Context, id uint) (*models.Ticket, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var ticket models.Ticket
	err := r.getDB(ctx).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Omit("data") }).
		First(&ticket, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			configslog.Log.Error("TicketRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		}
		return nil, notFound(err)
	}
	return &ticket, nil
}

func (r *TicketRepository) FindAttachment(ctx context.Context, ticketID, attachmentID uint) (*models.TicketAttachment, error) {
	var a models.TicketAttachment
	err := r.getDB(ctx).Where("ticket_id = ? AND id = ?", ticketID, attachmentID).First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// FindPendingForApprover kullanıcıya veya üyesi olduğu gruplara bağlı bekleyen biletler.
func (r *TicketRepository) FindPendingForApprover(ctx context.Context, userID uint, groupIDs []uint, params queryparams.ListParams) ([]models.Ticket, int64, error) {
	params.Validate()
	var (
		tickets []models.Ticket
		total   int64
	)
	query := r.getDB(ctx).Model(&models.Ticket{}).Where("status = ?", models.TicketPendingApproval)
	if len(groupIDs) > 0 {
		query = query.Where("approver_user_id = ? OR approver_group_id IN ?", userID, groupIDs)
	} else {
		query = query.Where("approver_user_id = ?", userID)
	}
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("TicketRepository.FindPendingForApprover: count error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return []models.Ticket{}, 0, nil
	}
	err := query.Order("created_at " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&tickets).Error
	if err != nil {
		configslog.Log.Error("TicketRepository.FindPendingForApprover: find error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, total, err
	}
	return tickets, total, nil
}

// Decide sadece onay bekleyen bileti günceller; aksi halde ErrNotFound.
func (r *TicketRepository) Decide(ctx context.Context, id uint, status models.TicketStatus, decidedBy uint) error {
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(&models.Ticket{}).
		Where("id = ? AND status = ?", id, models.TicketPendingApproval).
		Updates(map[string]any{
			"status":             status,
			"decided_by_user_id": decidedBy,
			"decided_at":         now,
			"updated_by":         decidedBy,
		})
	if result.Error != nil {
		configslog.Log.Error("TicketRepository.Decide: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ ITicketRepository = (*TicketRepository)(nil)
