package models

// Artist is a mirrored remote artist. The table is rebuilt on every artist sync.
type Artist struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"column:name;size:255;index" json:"name"`
	AvatarImage string `gorm:"column:avatar_image;size:1024" json:"avatar_image"`
	URL         string `gorm:"column:url;size:1024" json:"url"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Website     string `gorm:"column:website;size:1024" json:"website"`
}

// TableName overrides the table name.
func (Artist) TableName() string {
	return "artists"
}

// Tag is one entry of an artist's tag vocabulary.
type Tag struct {
	ID       int64  `gorm:"column:id;primaryKey" json:"id"`
	ArtistID int64  `gorm:"column:artist_id;index" json:"artist_id"`
	Name     string `gorm:"column:name;size:255;index" json:"name"`
}

// TableName overrides the table name.
func (Tag) TableName() string {
	return "tags"
}
