package service

import (
	"context"
	"fmt"

	"photomap/photo-api/model"

	"gorm.io/gorm"
)

// DisplayRecord is one gallery entry with its metadata joined in and
// the object URL already resolved
type DisplayRecord struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Kind      MediaKind `json:"kind"`
	Tags      string    `json:"tags"`
	Folder    string    `json:"folder"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt int64     `json:"created_at"`
}

type Gallery struct {
	DB    *gorm.DB
	Store ObjectStore
}

func NewGallery(db *gorm.DB, store ObjectStore) *Gallery {
	return &Gallery{DB: db, Store: store}
}

// ListOwned returns every photo of one user, newest first
func (g *Gallery) ListOwned(ctx context.Context, ownerID string) ([]DisplayRecord, error) {
	var photos []model.Photo

	err := g.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&photos).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photos, %w", err)
	}

	return g.join(ctx, photos)
}

// ListPublic returns every photo whose visibility row is public. The
// privacy filter sits in the query predicate, private rows never leave
// the database
func (g *Gallery) ListPublic(ctx context.Context) ([]DisplayRecord, error) {
	var photos []model.Photo

	err := g.DB.WithContext(ctx).
		Select("photos.*").
		Joins("JOIN photo_visibility ON photo_visibility.id = photos.id AND photo_visibility.is_private = ?", false).
		Order("photos.created_at DESC, photos.id DESC").
		Find(&photos).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public photos, %w", err)
	}

	return g.join(ctx, photos)
}

// join matches info and visibility rows to the fetched photos by ID.
// A photo without an info row still renders, it just falls back to the
// "Other" folder and no tags
func (g *Gallery) join(ctx context.Context, photos []model.Photo) ([]DisplayRecord, error) {
	records := make([]DisplayRecord, 0, len(photos))
	if len(photos) == 0 {
		return records, nil
	}

	ids := make([]uint, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ID)
	}

	var infos []model.PhotoInfo
	err := g.DB.WithContext(ctx).
		Where("photo_id IN ?", ids).
		Find(&infos).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photo info, %w", err)
	}

	infoByID := make(map[uint]model.PhotoInfo, len(infos))
	for _, i := range infos {
		infoByID[i.PhotoID] = i
	}

	var visibilities []model.PhotoVisibility
	err = g.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&visibilities).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photo visibility, %w", err)
	}

	visByID := make(map[uint]model.PhotoVisibility, len(visibilities))
	for _, v := range visibilities {
		visByID[v.ID] = v
	}

	for _, p := range photos {
		rec := DisplayRecord{
			ID:        p.ID,
			Title:     p.Title,
			URL:       g.Store.URL(p.FilePath),
			Kind:      KindOf(p.FilePath),
			Tags:      "none",
			Folder:    "Other",
			IsPrivate: true,
			CreatedAt: p.CreatedAt,
		}

		if info, ok := infoByID[p.ID]; ok {
			if info.Tags != "" {
				rec.Tags = info.Tags
			}
			if info.Folder != "" {
				rec.Folder = info.Folder
			}
		}

		if vis, ok := visByID[p.ID]; ok {
			rec.IsPrivate = vis.IsPrivate
		}

		records = append(records, rec)
	}

	return records, nil
}
