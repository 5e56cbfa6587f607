package upload

import "time"

// Upload is a file stored on local disk. Property listings reference uploads
// for photos; verification requests reference them for documents.
type Upload struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"index;not null"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"-"`
	FileURL      string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }
