// Package model defines database models
package model

// Photo is one uploaded media item. The binary itself lives in the object
// store under FilePath, the row only carries ownership and display data.
type Photo struct {
	ID     uint   `gorm:"primaryKey;autoIncrement;index" json:"id"`
	UserID string `gorm:"index;not null" json:"-"`

	// Object key of the form {user_id}/{unix_millis}.{ext}. Encoding the owner
	// in the key lets the storage side do access control by prefix
	FilePath string `gorm:"not null" json:"file_path"`

	Title string `json:"title"`
	// Unix millisecond timestamp
	CreatedAt int64 `gorm:"not null" json:"created_at"`
}

func (Photo) TableName() string { return "photos" }

// PhotoVisibility shares its primary key with the photo it belongs to.
// Rows default to private until the owner relaxes them.
type PhotoVisibility struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	IsPrivate bool `gorm:"not null;default:true" json:"is_private"`
}

func (PhotoVisibility) TableName() string { return "photo_visibility" }

// PhotoInfo holds the free-text metadata of a photo. Latitude and longitude
// are either both set or both null, never one without the other.
type PhotoInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID uint `gorm:"index;not null" json:"photo_id"`

	// Comma separated free text, empty when the user supplied none
	Tags      string   `json:"tags"`
	Folder    string   `gorm:"default:Other" json:"folder"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	CreatedAt int64    `json:"created_at"`
}

func (PhotoInfo) TableName() string { return "photo_info" }

// PhotoDescription is written once during upload and removed on delete.
// Nothing reads or updates it, the row exists for compatibility with other
// consumers of the same tables.
type PhotoDescription struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotoID     uint   `gorm:"index;not null" json:"photo_id"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
}

func (PhotoDescription) TableName() string { return "photo_descriptions" }
