package service

import (
	"context"
	"errors"
	"fmt"

	"photomap/photo-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deleter struct {
	DB      *gorm.DB
	Store   ObjectStore
	Refresh *RefreshBus
}

func NewDeleter(db *gorm.DB, store ObjectStore, refresh *RefreshBus) *Deleter {
	return &Deleter{DB: db, Store: store, Refresh: refresh}
}

// Delete removes one photo and everything hanging off it: the stored
// object first, then visibility, info and description rows, and the
// photo row last. A storage failure aborts before the photo row is
// touched so the only pointer to a still-existing object is never lost.
// Dependent rows that are already missing are tolerated
func (d *Deleter) Delete(ctx context.Context, photoID uint, ownerID string) error {
	var photo model.Photo

	err := d.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", photoID, ownerID).
		First(&photo).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}

		return stageErr(StageRecord, fmt.Errorf("failed to fetch photo, %w", err))
	}

	if err := d.Store.Delete(ctx, photo.FilePath); err != nil {
		return stageErr(StageStorage, err)
	}

	err = d.DB.WithContext(ctx).
		Where("id = ?", photoID).
		Delete(&model.PhotoVisibility{}).
		Error
	if err != nil {
		return stageErr(StageVisibility, err)
	}

	err = d.DB.WithContext(ctx).
		Where("photo_id = ?", photoID).
		Delete(&model.PhotoInfo{}).
		Error
	if err != nil {
		return stageErr(StageInfo, err)
	}

	err = d.DB.WithContext(ctx).
		Where("photo_id = ?", photoID).
		Delete(&model.PhotoDescription{}).
		Error
	if err != nil {
		return stageErr(StageDescription, err)
	}

	err = d.DB.WithContext(ctx).
		Where("id = ?", photoID).
		Delete(&model.Photo{}).
		Error
	if err != nil {
		return stageErr(StageRecord, err)
	}

	d.Refresh.Advance()

	zap.L().Info("Photo deleted",
		zap.Uint("photoID", photoID),
		zap.String("userID", ownerID),
		zap.String("key", photo.FilePath),
	)

	return nil
}
