package implementation

import (
	"context"

	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/mapper"
	"parent-assistant-be/internal/model"
	"parent-assistant-be/internal/repository/contract"
	"parent-assistant-be/internal/repository/scope"
	"parent-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatTranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatTranscriptMapper
}

func NewChatTranscriptRepository(db *gorm.DB) contract.ChatTranscriptRepository {
	return &ChatTranscriptRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatTranscriptMapper(),
	}
}

func (r *ChatTranscriptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatTranscriptRepositoryImpl) Create(ctx context.Context, transcript *entity.ChatTranscript) error {
	m := r.mapper.ToModel(transcript)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*transcript = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatTranscriptRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTranscript, error) {
	var models []*model.ChatTranscript
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedAsc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatTranscriptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatTranscript{}).Count(&count).Error
	return count, err
}
