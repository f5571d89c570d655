package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stake-plus/discord-forms/src/shared/forms"
	"github.com/stake-plus/discord-forms/src/shared/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionStore persists submissions, their approval lifecycle and the
// vote ledger. Decide and CastVote are the two multi-write operations; both
// run inside a single transaction.
type SubmissionStore struct {
	db *gorm.DB
}

func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) Create(ctx context.Context, sub *types.SubmittedForm) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Get(ctx context.Context, id uint64) (*types.SubmittedForm, error) {
	var sub types.SubmittedForm
	err := s.db.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, forms.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load submission %d: %w", id, err)
	}
	return &sub, nil
}

// GetWithTemplate loads a submission together with its template.
func (s *SubmissionStore) GetWithTemplate(ctx context.Context, id uint64) (*types.SubmittedForm, error) {
	var sub types.SubmittedForm
	err := s.db.WithContext(ctx).Preload("Template").First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, forms.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load submission %d: %w", id, err)
	}
	return &sub, nil
}

func (s *SubmissionStore) ListByTemplate(ctx context.Context, templateID uint64) ([]types.SubmittedForm, error) {
	var list []types.SubmittedForm
	err := s.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions for template %d: %w", templateID, err)
	}
	return list, nil
}

// ListSuggestions returns approved suggestion-form submissions for a guild
// ordered by vote score.
func (s *SubmissionStore) ListSuggestions(ctx context.Context, guildID string) ([]types.SubmittedForm, error) {
	var list []types.SubmittedForm
	err := s.db.WithContext(ctx).
		Joins("JOIN form_templates ON form_templates.id = submitted_forms.template_id").
		Where("form_templates.guild_id = ? AND form_templates.form_type = ? AND submitted_forms.status = ?",
			guildID, string(forms.FormTypeSuggestion), forms.StatusApproved).
		Order("(submitted_forms.upvotes - submitted_forms.downvotes) DESC, submitted_forms.id").
		Preload("Template").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list suggestions for guild %s: %w", guildID, err)
	}
	return list, nil
}

// Decide moves a pending submission to its terminal status. The status guard
// sits in the UPDATE itself: a submission that exists but is no longer
// pending yields ErrAlreadyDecided, and a second decision never overwrites
// the first.
func (s *SubmissionStore) Decide(ctx context.Context, id uint64, status, reason, staffID string, at time.Time) (*types.SubmittedForm, error) {
	var sub types.SubmittedForm
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&types.SubmittedForm{}).
			Where("id = ? AND status = ?", id, forms.StatusPending).
			Updates(map[string]interface{}{
				"status":          status,
				"response_reason": reason,
				"responded_by":    staffID,
				"responded_at":    at,
			})
		if res.Error != nil {
			return fmt.Errorf("update submission %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&types.SubmittedForm{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("check submission %d: %w", id, err)
			}
			if count == 0 {
				return forms.ErrNotFound
			}
			return forms.ErrAlreadyDecided
		}
		return tx.Preload("Template").First(&sub, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SetPublicMessage records the id of the public post created on approval.
func (s *SubmissionStore) SetPublicMessage(ctx context.Context, id uint64, messageID string) error {
	err := s.db.WithContext(ctx).Model(&types.SubmittedForm{}).
		Where("id = ?", id).
		Update("public_message_id", messageID).Error
	if err != nil {
		return fmt.Errorf("set public message for submission %d: %w", id, err)
	}
	return nil
}

// CastVote inserts the vote row and bumps the matching counter as one
// transaction. The row lock on the submission serializes concurrent voters;
// the unique index on (submission_id, user_id) backstops the duplicate check.
func (s *SubmissionStore) CastVote(ctx context.Context, submissionID uint64, userID string, vote forms.VoteType, at time.Time) (up, down int64, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub types.SubmittedForm
		ferr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sub, submissionID).Error
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			return forms.ErrNotFound
		}
		if ferr != nil {
			return fmt.Errorf("load submission %d: %w", submissionID, ferr)
		}

		var existing types.FormVote
		ferr = tx.Where("submission_id = ? AND user_id = ?", submissionID, userID).First(&existing).Error
		if ferr == nil {
			return forms.ErrAlreadyVoted
		}
		if !errors.Is(ferr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check vote: %w", ferr)
		}

		row := types.FormVote{
			SubmissionID: submissionID,
			UserID:       userID,
			VoteType:     string(vote),
			VotedAt:      at,
		}
		if cerr := tx.Create(&row).Error; cerr != nil {
			if errors.Is(cerr, gorm.ErrDuplicatedKey) {
				return forms.ErrAlreadyVoted
			}
			return fmt.Errorf("insert vote: %w", cerr)
		}

		column := "upvotes"
		if vote == forms.VoteDown {
			column = "downvotes"
		}
		uerr := tx.Model(&types.SubmittedForm{}).
			Where("id = ?", submissionID).
			UpdateColumn(column, gorm.Expr(column+" + 1")).Error
		if uerr != nil {
			return fmt.Errorf("increment %s: %w", column, uerr)
		}

		if rerr := tx.First(&sub, submissionID).Error; rerr != nil {
			return fmt.Errorf("reload vote counts: %w", rerr)
		}
		up, down = sub.Upvotes, sub.Downvotes
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return up, down, nil
}
