package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"photomap/photo-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ObjectStore is the slice of the storage client the workflows need.
// Put must refuse to replace an existing key
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Uploader runs the multi-table commit sequence for one media item:
// object upload, photo row, visibility row, info row, description row.
// A later stage failing rolls the earlier stages back best-effort and
// the caller gets an error tagged with the failed stage.
type Uploader struct {
	DB      *gorm.DB
	Store   ObjectStore
	Refresh *RefreshBus

	// Deadline for the whole sequence. Zero means no deadline
	Timeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewUploader(db *gorm.DB, store ObjectStore, refresh *RefreshBus, timeout time.Duration) *Uploader {
	return &Uploader{
		DB:       db,
		Store:    store,
		Refresh:  refresh,
		Timeout:  timeout,
		inflight: make(map[string]struct{}),
	}
}

type UploadRequest struct {
	OwnerID  string
	Filename string
	Body     io.Reader
	Size     int64

	Tags      string
	Private   bool
	Latitude  *float64
	Longitude *float64
}

// Submit commits one media item. Only one upload may run per user at a
// time, a second call while the first is in flight returns
// ErrUploadInFlight. That also keeps one client from racing itself into
// a same-millisecond key collision
func (u *Uploader) Submit(ctx context.Context, req *UploadRequest) (uint, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return 0, ErrPartialCoordinate
	}

	u.mu.Lock()
	if _, ok := u.inflight[req.OwnerID]; ok {
		u.mu.Unlock()
		return 0, ErrUploadInFlight
	}
	u.inflight[req.OwnerID] = struct{}{}
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		delete(u.inflight, req.OwnerID)
		u.mu.Unlock()
	}()

	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}

	now := time.Now().UnixMilli()
	ext := NormalizeExt(req.Filename)
	key := ObjectKey(req.OwnerID, now, ext)
	contentType := ContentType(ext)

	if err := u.Store.Put(ctx, key, contentType, req.Body, req.Size); err != nil {
		return 0, stageErr(StageStorage, err)
	}

	photo := model.Photo{
		UserID:    req.OwnerID,
		FilePath:  key,
		Title:     fmt.Sprintf("photo_%d.%s", now, ext),
		CreatedAt: now,
	}

	if err := u.DB.WithContext(ctx).Create(&photo).Error; err != nil {
		u.compensate(key, 0, StageRecord)
		return 0, stageErr(StageRecord, err)
	}

	visibility := model.PhotoVisibility{
		ID:        photo.ID,
		IsPrivate: req.Private,
	}

	if err := u.DB.WithContext(ctx).Create(&visibility).Error; err != nil {
		u.compensate(key, photo.ID, StageVisibility)
		return 0, stageErr(StageVisibility, err)
	}

	info := model.PhotoInfo{
		PhotoID:   photo.ID,
		Tags:      req.Tags,
		Folder:    "Other",
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: now,
	}

	if err := u.DB.WithContext(ctx).Create(&info).Error; err != nil {
		u.compensate(key, photo.ID, StageInfo)
		return 0, stageErr(StageInfo, err)
	}

	desc := model.PhotoDescription{
		PhotoID:     photo.ID,
		Description: "",
		CreatedAt:   now,
	}

	if err := u.DB.WithContext(ctx).Create(&desc).Error; err != nil {
		u.compensate(key, photo.ID, StageDescription)
		return 0, stageErr(StageDescription, err)
	}

	u.Refresh.Advance()

	zap.L().Info("Upload committed",
		zap.Uint("photoID", photo.ID),
		zap.String("userID", req.OwnerID),
		zap.String("key", key),
	)

	return photo.ID, nil
}

// compensate undoes the stages that completed before failed. Best
// effort only, a failed compensation leaves an orphan behind and is
// logged with the object key for manual cleanup
func (u *Uploader) compensate(key string, photoID uint, failed Stage) {
	// Run detached so a cancelled workflow context can't stop the cleanup
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if failed == StageInfo || failed == StageDescription {
		if err := u.DB.WithContext(ctx).Where("photo_id = ?", photoID).Delete(&model.PhotoInfo{}).Error; err != nil {
			zap.L().Error("Failed to roll back info row", zap.Uint("photoID", photoID), zap.Error(err))
		}
	}

	if failed == StageVisibility || failed == StageInfo || failed == StageDescription {
		if err := u.DB.WithContext(ctx).Where("id = ?", photoID).Delete(&model.PhotoVisibility{}).Error; err != nil {
			zap.L().Error("Failed to roll back visibility row", zap.Uint("photoID", photoID), zap.Error(err))
		}
	}

	if photoID != 0 {
		if err := u.DB.WithContext(ctx).Where("id = ?", photoID).Delete(&model.Photo{}).Error; err != nil {
			zap.L().Error("Failed to roll back photo row", zap.Uint("photoID", photoID), zap.Error(err))
		}
	}

	if err := u.Store.Delete(ctx, key); err != nil {
		zap.L().Error("Failed to clean up stored object, it is now orphaned",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
