package models

import "time"

// AuditResultOk is the result recorded for an operation that returned normally.
const AuditResultOk = "Ok"

// AuditPost is an append-only record of one audited call. UserID is the actor at
// call time, which is not necessarily the owner of the accounts involved.
type AuditPost struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index;<-:create" json:"user_id"`
	Operation  string    `gorm:"not null;<-:create" json:"operation"`
	Parameters string    `gorm:"<-:create" json:"parameters"`
	Result     string    `gorm:"<-:create" json:"result"`
	CreatedAt  time.Time `json:"created_at"`
}
