package models

import "time"

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  string    `gorm:"uniqueIndex;not null"`
	UserID    uint      `gorm:"not null;index"`
	Timestamp time.Time `gorm:"not null;autoCreateTime"`
	Sender    string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
}

func (ChatMessage) TableName() string {
	return "chat_logs"
}
