package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"photomap/photo-api/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a throwaway sqlite database with all tables migrated
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		model.User{},
		model.Photo{},
		model.PhotoVisibility{},
		model.PhotoInfo{},
		model.PhotoDescription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// fakeStore is an in-memory ObjectStore with switchable failures
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	failPut    error
	failDelete error

	// When set, Put blocks until the channel is closed
	putGate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if s.putGate != nil {
		<-s.putGate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failPut != nil {
		return s.failPut
	}

	if _, ok := s.objects[key]; ok {
		return errors.New("object already exists under this key")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.objects[key] = data
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failDelete != nil {
		return s.failDelete
	}

	delete(s.objects, key)
	return nil
}

func (s *fakeStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

func (s *fakeStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

func count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()

	var n int64
	if err := db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
