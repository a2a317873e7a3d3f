package repository

import (
	"context"

	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetOwner(ctx context.Context, eventID string, number int64) (string, error)
	GetByOwner(ctx context.Context, eventID, owner string) ([]entity.Ticket, error)
	CountByOwner(ctx context.Context, eventID, owner string) (int64, error)
	Count(ctx context.Context, eventID string) (int64, error)
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	return xcontext.DB(ctx).Create(ticket).Error
}

func (r *ticketRepository) GetOwner(ctx context.Context, eventID string, number int64) (string, error) {
	var result entity.Ticket
	err := xcontext.DB(ctx).Take(&result, "event_id=? AND number=?", eventID, number).Error
	if err != nil {
		return "", err
	}

	return result.Owner, nil
}

func (r *ticketRepository) GetByOwner(ctx context.Context, eventID, owner string) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).Order("number ASC").
		Find(&result, "event_id=? AND owner=?", eventID, owner).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) CountByOwner(ctx context.Context, eventID, owner string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("event_id=? AND owner=?", eventID, owner).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *ticketRepository) Count(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("event_id=?", eventID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
