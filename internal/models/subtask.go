package models

type Subtask struct {
	BaseModel

	TaskID    uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Completed bool   `gorm:"not null;default:false"`

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
