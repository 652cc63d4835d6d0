package models

// EventPhoto is an admin-uploaded photo stored in R2; URL is the public CDN link.
type EventPhoto struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	URL        string `gorm:"type:text;not null" json:"url"`
	UploadedBy string `json:"uploaded_by"`

	Timestamps
}
