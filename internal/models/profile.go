package models

type Profile struct {
	BaseModel

	UserID   uint `gorm:"not null;uniqueIndex"`
	Bio      string
	Location string

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
