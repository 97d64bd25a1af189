package service

import (
	"context"
	"fmt"

	"photomap/photo-api/model"

	"gorm.io/gorm"
)

// MarkerRecord is one map marker for a geotagged photo
type MarkerRecord struct {
	ID        uint    `json:"id"`
	PhotoID   uint    `json:"photo_id"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type GeoMap struct {
	DB    *gorm.DB
	Store ObjectStore
}

func NewGeoMap(db *gorm.DB, store ObjectStore) *GeoMap {
	return &GeoMap{DB: db, Store: store}
}

// ListOwnedGeotagged returns markers for the caller's photos that carry
// a coordinate. Info rows whose photo belongs to someone else, or to a
// photo that no longer exists, drop out of the inner join silently
func (m *GeoMap) ListOwnedGeotagged(ctx context.Context, ownerID string) ([]MarkerRecord, error) {
	var infos []model.PhotoInfo

	err := m.DB.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&infos).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch geotagged info rows, %w", err)
	}

	markers := make([]MarkerRecord, 0, len(infos))
	if len(infos) == 0 {
		return markers, nil
	}

	ids := make([]uint, 0, len(infos))
	for _, i := range infos {
		ids = append(ids, i.PhotoID)
	}

	var photos []model.Photo
	err = m.DB.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, ownerID).
		Find(&photos).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owned photos, %w", err)
	}

	photoByID := make(map[uint]model.Photo, len(photos))
	for _, p := range photos {
		photoByID[p.ID] = p
	}

	for _, info := range infos {
		photo, ok := photoByID[info.PhotoID]
		if !ok {
			continue
		}

		markers = append(markers, MarkerRecord{
			ID:        info.ID,
			PhotoID:   photo.ID,
			Title:     photo.Title,
			URL:       m.Store.URL(photo.FilePath),
			Latitude:  *info.Latitude,
			Longitude: *info.Longitude,
		})
	}

	return markers, nil
}
