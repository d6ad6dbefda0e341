package chat

import "time"

// UploadedFile is an attachment spooled to a local temporary file.
type UploadedFile struct {
	Name    string
	TmpPath string
	Size    int64
}

type SendMessageCommand struct {
	ChatID    ChatID `validate:"required,uuid"`
	UserID    UserID `validate:"required"`
	Content   string
	Files     []UploadedFile
	CreatedAt time.Time
}

type DeleteMessageCommand struct {
	ChatID    ChatID    `validate:"required,uuid"`
	MessageID MessageID `validate:"required,uuid"`
	UserID    UserID    `validate:"required"`
}

type ListMessagesCommand struct {
	ChatID ChatID `validate:"required,uuid"`
	UserID UserID `validate:"required"`
}
