package repository

import (
	"context"

	"gorm.io/gorm"

	"skillpath/backend/internal/model"
)

// TimelineRepository 时间线文档访问接口
type TimelineRepository interface {
	Create(ctx context.Context, timeline *model.Timeline) error
	GetByID(ctx context.Context, id string) (*model.Timeline, error)
	ListByUser(ctx context.Context, userID string) ([]model.Timeline, error)
	Update(ctx context.Context, timeline *model.Timeline) error
}

// timelineRepo TimelineRepository 的 GORM 实现
type timelineRepo struct {
	db *gorm.DB
}

// NewTimelineRepo 创建 TimelineRepository 实例
func NewTimelineRepo(db *gorm.DB) TimelineRepository {
	return &timelineRepo{db: db}
}

func (r *timelineRepo) Create(ctx context.Context, timeline *model.Timeline) error {
	return r.db.WithContext(ctx).Create(timeline).Error
}

func (r *timelineRepo) GetByID(ctx context.Context, id string) (*model.Timeline, error) {
	var tl model.Timeline
	err := r.db.WithContext(ctx).
		Where("timeline_id = ?", id).
		First(&tl).Error
	if err != nil {
		return nil, err
	}
	return &tl, nil
}

func (r *timelineRepo) ListByUser(ctx context.Context, userID string) ([]model.Timeline, error) {
	var timelines []model.Timeline
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at DESC").
		Find(&timelines).Error
	if err != nil {
		return nil, err
	}
	return timelines, nil
}

func (r *timelineRepo) Update(ctx context.Context, timeline *model.Timeline) error {
	return r.db.WithContext(ctx).Save(timeline).Error
}
