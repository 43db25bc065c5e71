package sqlite

import "time"

type UserModel struct {
	ID    int64  `gorm:"primaryKey"`
	Email string `gorm:"not null"`
	Plan  string `gorm:"not null;default:'free'"`
}

func (UserModel) TableName() string { return "users" }

type PetModel struct {
	ID          int64 `gorm:"primaryKey"`
	UserID      *int64
	Name        string `gorm:"not null"`
	Species     string `gorm:"not null"`
	Breed       *string
	Age         *int
	BirthDate   *time.Time
	DeathDate   *time.Time
	Gender      string `gorm:"not null;default:'UNKNOWN'"`
	Neutered    bool   `gorm:"not null;default:false"`
	Description *string
	CreatedAt   time.Time
}

func (PetModel) TableName() string { return "pets" }

type WeightLogModel struct {
	ID         int64     `gorm:"primaryKey"`
	PetID      int64     `gorm:"not null;index"`
	WeightKg   float64   `gorm:"not null"`
	MeasuredAt time.Time `gorm:"not null"`
}

func (WeightLogModel) TableName() string { return "weight_logs" }
