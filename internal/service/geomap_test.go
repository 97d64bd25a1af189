package service

import (
	"context"
	"testing"
)

func coord(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func TestListOwnedGeotagged(t *testing.T) {
	db := testDB(t)
	m := NewGeoMap(db, newFakeStore())

	aliceLat, aliceLon := coord(52.2297, 21.0122)
	bobLat, bobLon := coord(50.0647, 19.9450)

	seed(t, db, []seedPhoto{
		{userID: "alice", filePath: "alice/1.jpg", title: "tagged", createdAt: 1, private: true, lat: aliceLat, lon: aliceLon},
		{userID: "alice", filePath: "alice/2.jpg", title: "untagged", createdAt: 2, private: true},
		{userID: "bob", filePath: "bob/3.jpg", title: "someone else's", createdAt: 3, private: false, lat: bobLat, lon: bobLon},
	})

	markers, err := m.ListOwnedGeotagged(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}

	marker := markers[0]
	if marker.Title != "tagged" {
		t.Errorf("unexpected marker %q", marker.Title)
	}
	if marker.Latitude != *aliceLat || marker.Longitude != *aliceLon {
		t.Errorf("unexpected coordinate (%v, %v)", marker.Latitude, marker.Longitude)
	}
	if marker.URL != "https://cdn.example.com/alice/1.jpg" {
		t.Errorf("unexpected url %q", marker.URL)
	}
}

func TestListOwnedGeotaggedDropsOrphanedInfo(t *testing.T) {
	db := testDB(t)
	m := NewGeoMap(db, newFakeStore())

	lat, lon := coord(52.0, 21.0)

	ids := seed(t, db, []seedPhoto{
		{userID: "alice", filePath: "alice/1.jpg", title: "kept", createdAt: 1, private: true, lat: lat, lon: lon},
	})

	// Remove the photo but leave the geotagged info row behind
	if err := db.Exec("DELETE FROM photos WHERE id = ?", ids[0]).Error; err != nil {
		t.Fatalf("failed to delete photo: %v", err)
	}

	markers, err := m.ListOwnedGeotagged(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(markers) != 0 {
		t.Errorf("expected the orphaned info row to be dropped, got %d markers", len(markers))
	}
}
