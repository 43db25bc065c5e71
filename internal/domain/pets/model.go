package pets

import "time"

// Gender de la mascota.
// @Enum MALE, FEMALE, UNKNOWN
type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderUnknown Gender = "UNKNOWN"
)

// Pet representa una mascota registrada.
type Pet struct {
	ID int64

	// UserID es nil solo para mascotas legacy sin dueño (ver `pets assign`).
	UserID *int64

	Name    string
	Species string
	Breed   *string

	// Age se deriva de BirthDate cuando existe.
	Age       *int
	BirthDate *time.Time
	DeathDate *time.Time

	Gender      Gender
	Neutered    bool
	Description *string

	CreatedAt time.Time
}

// OwnedBy indica si la mascota pertenece a userID.
func (p Pet) OwnedBy(userID int64) bool {
	return p.UserID != nil && *p.UserID == userID
}
