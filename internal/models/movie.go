package models

import (
	"time"
)

type Movie struct {
	ID          uint       `gorm:"primaryKey" json:"id" example:"1"`
	Title       string     `gorm:"not null;index;size:200" json:"title" example:"Fight Club"`
	Description string     `gorm:"type:text" json:"description" example:"An insomniac office worker..."`
	ReleaseDate *time.Time `gorm:"index" json:"release_date,omitempty" example:"1999-10-15T00:00:00Z"`
	PosterKey   string     `json:"poster_key,omitempty" example:"posters/fight-club_a1b2c3d4.jpg"`
	CategoryID  *uint      `gorm:"index" json:"category_id,omitempty"`
	Category    *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Genres      []Genre    `gorm:"many2many:movie_genres;" json:"genres,omitempty"`
	AuthorID    *uint      `gorm:"index" json:"author_id,omitempty"`
	Author      *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Rating      float64    `gorm:"index;default:0" json:"rating" example:"8.4"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}
