package models

type Contact struct {
	BaseModel

	OwnerID uint   `gorm:"not null;index;uniqueIndex:idx_contact_owner_email"`
	Name    string `gorm:"not null"`
	Email   string `gorm:"not null;uniqueIndex:idx_contact_owner_email"`
	Phone   string `gorm:"not null"`
	Color   string `gorm:"not null;default:'#000000'"`

	// Relationships
	Owner User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Tasks []Task `gorm:"many2many:task_contacts" json:"-"`
}
