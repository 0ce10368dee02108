package model

type Hoax struct {
	ID       int64  `db:"id"`
	Content  string `db:"content"`
	PostedAt int64  `db:"posted_at"` // unix millis
	UserID   int64  `db:"user_id"`
}

type Attachment struct {
	ID         int64  `db:"id"`
	Filename   string `db:"filename"`
	FileType   string `db:"file_type"`
	UploadDate int64  `db:"upload_date"` // unix millis
	HoaxID     *int64 `db:"hoax_id"`
}

// HoaxView is a hoax joined with its owner and optional attachment.
type HoaxView struct {
	ID             int64           `json:"id"`
	Content        string          `json:"content"`
	Timestamp      int64           `json:"timestamp"`
	User           UserView        `json:"user"`
	FileAttachment *AttachmentView `json:"fileAttachment,omitempty"`
}

type AttachmentView struct {
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
}
