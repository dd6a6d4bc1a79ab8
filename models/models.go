package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
	Username     string         `gorm:"size:150;not null;unique"`
	Email        string         `gorm:"size:255;not null;unique"`
	PasswordHash string         `gorm:"size:255;not null"`
	Places       []Place        `gorm:"foreignKey:AuthorID"`
}

type Place struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:100;not null"`
	Subtitle    string `gorm:"size:100"`
	Description string `gorm:"type:text"`
	Longitude   float64
	Latitude    float64
	Category    string   `gorm:"size:50;index"`
	Rating      *float64 `gorm:"type:decimal(2,1)"`
	AuthorID    *uint
	Author      *User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Images      []PlaceImage `gorm:"constraint:OnDelete:CASCADE;"`
}

// Thumbnail returns the image currently flagged for preview display, or nil.
func (p *Place) Thumbnail() *PlaceImage {
	for i := range p.Images {
		if p.Images[i].IsThumbnail {
			return &p.Images[i]
		}
	}
	return nil
}

type PlaceImage struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PlaceID     uint   `gorm:"not null;index"`
	StorageKey  string `gorm:"size:512;not null"`
	ThumbKey    string `gorm:"size:512"`
	Filename    string `gorm:"size:255"`
	Caption     string `gorm:"size:100"`
	IsThumbnail bool
	Position    uint
}
