package service

import (
	"context"
	"testing"

	"photomap/photo-api/model"

	"gorm.io/gorm"
)

type seedPhoto struct {
	userID    string
	filePath  string
	title     string
	createdAt int64
	private   bool
	// skipVisibility / skipInfo simulate rows lost to partial commits
	skipVisibility bool
	skipInfo       bool
	tags           string
	folder         string
	lat, lon       *float64
}

func seed(t *testing.T, db *gorm.DB, photos []seedPhoto) []uint {
	t.Helper()

	ids := make([]uint, 0, len(photos))
	for _, sp := range photos {
		p := model.Photo{
			UserID:    sp.userID,
			FilePath:  sp.filePath,
			Title:     sp.title,
			CreatedAt: sp.createdAt,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("failed to seed photo: %v", err)
		}
		ids = append(ids, p.ID)

		if !sp.skipVisibility {
			err := db.Create(&model.PhotoVisibility{ID: p.ID, IsPrivate: sp.private}).Error
			if err != nil {
				t.Fatalf("failed to seed visibility: %v", err)
			}
		}

		if !sp.skipInfo {
			folder := sp.folder
			if folder == "" {
				folder = "Other"
			}
			err := db.Create(&model.PhotoInfo{
				PhotoID:   p.ID,
				Tags:      sp.tags,
				Folder:    folder,
				Latitude:  sp.lat,
				Longitude: sp.lon,
				CreatedAt: sp.createdAt,
			}).Error
			if err != nil {
				t.Fatalf("failed to seed info: %v", err)
			}
		}
	}

	return ids
}

func TestListPublicExcludesPrivate(t *testing.T) {
	db := testDB(t)
	g := NewGallery(db, newFakeStore())

	seed(t, db, []seedPhoto{
		{userID: "alice", filePath: "alice/1.jpg", title: "public one", createdAt: 1, private: false},
		{userID: "alice", filePath: "alice/2.jpg", title: "private one", createdAt: 2, private: true},
		{userID: "bob", filePath: "bob/3.jpg", title: "no visibility row", createdAt: 3, skipVisibility: true},
	})

	records, err := g.ListPublic(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 public record, got %d", len(records))
	}

	if records[0].Title != "public one" {
		t.Errorf("unexpected record %q in public listing", records[0].Title)
	}

	// A photo with no visibility row is not provably public, it must
	// stay hidden
	for _, r := range records {
		if r.Title == "no visibility row" {
			t.Error("photo without a visibility row leaked into the public gallery")
		}
	}
}

func TestListOwnedScopedToOwner(t *testing.T) {
	db := testDB(t)
	g := NewGallery(db, newFakeStore())

	seed(t, db, []seedPhoto{
		{userID: "alice", filePath: "alice/1.jpg", title: "mine", createdAt: 1, private: true},
		{userID: "bob", filePath: "bob/2.jpg", title: "theirs", createdAt: 2, private: false},
	})

	records, err := g.ListOwned(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(records) != 1 || records[0].Title != "mine" {
		t.Fatalf("expected only alice's photo, got %+v", records)
	}
}

func TestListOwnedDefaultsOnMissingInfo(t *testing.T) {
	db := testDB(t)
	g := NewGallery(db, newFakeStore())

	seed(t, db, []seedPhoto{
		{userID: "alice", filePath: "alice/1.jpg", title: "bare", createdAt: 1, private: true, skipInfo: true},
	})

	records, err := g.ListOwned(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0].Folder != "Other" {
		t.Errorf("expected fallback folder Other, got %q", records[0].Folder)
	}
	if records[0].Tags != "none" {
		t.Errorf("expected fallback tags none, got %q", records[0].Tags)
	}
}

func TestListOrderingNewestFirstWithIDTieBreak(t *testing.T) {
	db := testDB(t)
	g := NewGallery(db, newFakeStore())

	ids := seed(t, db, []seedPhoto{
		{userID: "alice", filePath: "alice/1.jpg", title: "old", createdAt: 100, private: true},
		{userID: "alice", filePath: "alice/2.jpg", title: "tie a", createdAt: 200, private: true},
		{userID: "alice", filePath: "alice/3.jpg", title: "tie b", createdAt: 200, private: true},
	})

	records, err := g.ListOwned(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	// Equal timestamps fall back to the higher (later inserted) ID first
	if records[0].ID != ids[2] || records[1].ID != ids[1] || records[2].ID != ids[0] {
		t.Errorf("unexpected order: %d, %d, %d", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestListResolvesURLAndKind(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	g := NewGallery(db, store)

	seed(t, db, []seedPhoto{
		{userID: "alice", filePath: "alice/1.jpg", title: "pic", createdAt: 3, private: true},
		{userID: "alice", filePath: "alice/2.mov", title: "clip", createdAt: 2, private: true},
		{userID: "alice", filePath: "alice/3.xyz", title: "blob", createdAt: 1, private: true},
	})

	records, err := g.ListOwned(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	expected := []struct {
		url  string
		kind MediaKind
	}{
		{"https://cdn.example.com/alice/1.jpg", KindImage},
		{"https://cdn.example.com/alice/2.mov", KindVideo},
		{"https://cdn.example.com/alice/3.xyz", KindUnknown},
	}

	for i, e := range expected {
		if records[i].URL != e.url {
			t.Errorf("%d: expected url %q, got %q", i, e.url, records[i].URL)
		}
		if records[i].Kind != e.kind {
			t.Errorf("%d: expected kind %q, got %q", i, e.kind, records[i].Kind)
		}
	}
}
