package repository

import (
	"context"

	"gorm.io/gorm"

	"skillpath/backend/internal/model"
)

// ProofRepository 完成凭证访问接口
// 凭证只增改、不删除
type ProofRepository interface {
	Create(ctx context.Context, proof *model.ProofRecord) error
	GetByID(ctx context.Context, id string) (*model.ProofRecord, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.ProofRecord, error)
	ListByUser(ctx context.Context, userID string) ([]model.ProofRecord, error)
	Update(ctx context.Context, proof *model.ProofRecord) error
}

// proofRepo ProofRepository 的 GORM 实现
type proofRepo struct {
	db *gorm.DB
}

// NewProofRepo 创建 ProofRepository 实例
func NewProofRepo(db *gorm.DB) ProofRepository {
	return &proofRepo{db: db}
}

func (r *proofRepo) Create(ctx context.Context, proof *model.ProofRecord) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

func (r *proofRepo) GetByID(ctx context.Context, id string) (*model.ProofRecord, error) {
	var proof model.ProofRecord
	err := r.db.WithContext(ctx).
		Where("proof_id = ?", id).
		First(&proof).Error
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

func (r *proofRepo) ListByEvent(ctx context.Context, eventID string) ([]model.ProofRecord, error) {
	var proofs []model.ProofRecord
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("submitted_at DESC").
		Find(&proofs).Error
	if err != nil {
		return nil, err
	}
	return proofs, nil
}

func (r *proofRepo) ListByUser(ctx context.Context, userID string) ([]model.ProofRecord, error) {
	var proofs []model.ProofRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&proofs).Error
	if err != nil {
		return nil, err
	}
	return proofs, nil
}

func (r *proofRepo) Update(ctx context.Context, proof *model.ProofRecord) error {
	return r.db.WithContext(ctx).Save(proof).Error
}
