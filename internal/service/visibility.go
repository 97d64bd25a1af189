package service

import (
	"context"
	"errors"
	"fmt"

	"photomap/photo-api/model"

	"gorm.io/gorm"
)

type Visibility struct {
	DB      *gorm.DB
	Refresh *RefreshBus
}

func NewVisibility(db *gorm.DB, refresh *RefreshBus) *Visibility {
	return &Visibility{DB: db, Refresh: refresh}
}

// Toggle flips the private flag of a photo owned by ownerID and returns
// the new value. Setting the same value twice is a no-op on the row, so
// retrying a confirmed toggle does no extra damage. The caller must not
// show the new state before this returns without error
func (v *Visibility) Toggle(ctx context.Context, photoID uint, ownerID string) (bool, error) {
	var owns bool
	err := v.DB.WithContext(ctx).
		Model(model.Photo{}).
		Where("id = ? AND user_id = ?", photoID, ownerID).
		Select("count(*) > 0").
		Find(&owns).
		Error
	if err != nil {
		return false, fmt.Errorf("failed to check photo ownership, %w", err)
	}

	if !owns {
		return false, ErrNotFound
	}

	var vis model.PhotoVisibility
	err = v.DB.WithContext(ctx).
		Where("id = ?", photoID).
		First(&vis).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}

		return false, fmt.Errorf("failed to fetch visibility row, %w", err)
	}

	next := !vis.IsPrivate

	err = v.DB.WithContext(ctx).
		Model(model.PhotoVisibility{}).
		Where("id = ?", photoID).
		Update("is_private", next).
		Error
	if err != nil {
		return false, fmt.Errorf("failed to update visibility, %w", err)
	}

	v.Refresh.Advance()

	return next, nil
}
