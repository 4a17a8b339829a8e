package database

import (
	"database/sql"
	"time"
)

// ProfileRowId is the fixed id of the singleton profile row. The row is
// seeded outside this service; handlers only ever read or update it.
const ProfileRowId = 1

type History struct {
	Id        uint   `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Message   string `gorm:"not null"`
	CreatedAt time.Time
}

type Profile struct {
	Id                uint   `gorm:"primaryKey"`
	Name              string `gorm:"not null"`
	ProfilePictureUrl sql.NullString
}

type Feedback struct {
	Id      uint   `gorm:"primaryKey"`
	Comment string `gorm:"not null"`
	Rating  int    `gorm:"not null;check:rating BETWEEN 1 AND 4"`
}
