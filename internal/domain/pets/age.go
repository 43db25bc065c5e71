package pets

import "time"

// AgeAt calcula la edad en años cumplidos a la fecha now.
// Si todavía no llegó el cumpleaños de este año se resta uno.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
