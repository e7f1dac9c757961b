package models

import "time"

const (
	StatusTodo          = "to-do"
	StatusInProgress    = "in-progress"
	StatusAwaitFeedback = "await-feedback"
	StatusDone          = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityUrgent = "urgent"
)

const (
	CategoryTechnicalTask = "Technical Task"
	CategoryUserStory     = "User Story"
)

const DefaultTaskIcon = "/static/default.svg"

type Task struct {
	BaseModel

	OwnerID       uint      `gorm:"not null;index"`
	Title         string    `gorm:"not null"`
	Description   string    `gorm:"type:text"`
	DueDate       time.Time `gorm:"type:date;not null"`
	Priority      string    `gorm:"not null"` // "low", "medium" or "urgent"
	Status        string    `gorm:"not null;default:'to-do';index"`
	BoardCategory string    `gorm:"not null;default:'to-do'"`
	TaskCategory  string
	Icon          string `gorm:"not null;default:'/static/default.svg'"`

	// Relationships
	Owner    User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Contacts []Contact `gorm:"many2many:task_contacts;constraint:OnDelete:CASCADE"`
	Subtasks []Subtask `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
