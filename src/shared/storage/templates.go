package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/stake-plus/discord-forms/src/shared/forms"
	"github.com/stake-plus/discord-forms/src/shared/types"
	"gorm.io/gorm"
)

// TemplateStore persists staff-authored form templates.
type TemplateStore struct {
	db *gorm.DB
}

func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) Create(ctx context.Context, t *types.FormTemplate) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (s *TemplateStore) Get(ctx context.Context, id uint64) (*types.FormTemplate, error) {
	var t types.FormTemplate
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, forms.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load template %d: %w", id, err)
	}
	return &t, nil
}

func (s *TemplateStore) ListByGuild(ctx context.Context, guildID string) ([]types.FormTemplate, error) {
	var list []types.FormTemplate
	err := s.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list templates for guild %s: %w", guildID, err)
	}
	return list, nil
}
