// Package validation revisa forma, tipo y rango de los payloads entrantes
// antes de tocar el datastore. Trabaja sobre registros sin tipar
// (map[string]any decodificado desde JSON).
package validation

import (
	"html"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"pet-weight-tracker/internal/apperr"

	"github.com/microcosm-cc/bluemonday"
)

// Record es un payload JSON decodificado.
type Record = map[string]any

// Field distingue "no enviado" de "enviado como null".
type Field[T any] struct {
	Set   bool
	Value *T
}

const (
	GenderMale    = "MALE"
	GenderFemale  = "FEMALE"
	GenderUnknown = "UNKNOWN"

	PlanFree    = "free"
	PlanPremium = "premium"
)

var textPolicy = bluemonday.StrictPolicy()

// PetFields es el resultado validado de un payload de creación.
type PetFields struct {
	Name        string
	Species     string
	Breed       *string
	Age         *int
	BirthDate   *time.Time
	DeathDate   *time.Time
	Gender      string
	Neutered    bool
	Description *string
}

// PetPatch contiene solo los campos presentes en un payload de actualización.
type PetPatch struct {
	Name        *string
	Species     *string
	Breed       Field[string]
	Age         Field[int]
	BirthDate   Field[time.Time]
	DeathDate   Field[time.Time]
	Gender      *string
	Neutered    *bool
	Description Field[string]
}

// WeightFields es el resultado validado de un payload de peso (create o update).
// MeasuredAt nil = no enviado.
type WeightFields struct {
	WeightKg   float64
	MeasuredAt *time.Time
}

// PetCreate valida el payload de creación de mascota y aplica defaults.
func PetCreate(raw Record) (PetFields, error) {
	name := strings.TrimSpace(stringOf(raw["name"]))
	species := strings.TrimSpace(stringOf(raw["species"]))
	if name == "" || species == "" {
		return PetFields{}, apperr.InvalidField("name", "name and species required", "name and species required")
	}
	if err := plainText("name", name); err != nil {
		return PetFields{}, err
	}
	if err := plainText("species", species); err != nil {
		return PetFields{}, err
	}

	out := PetFields{
		Name:    name,
		Species: species,
		Gender:  GenderUnknown,
	}

	var err error
	if out.Breed, err = optionalText(raw, "breed"); err != nil {
		return PetFields{}, err
	}
	if out.Description, err = optionalText(raw, "description"); err != nil {
		return PetFields{}, err
	}
	if out.Age, err = optionalAge(raw["age"]); err != nil {
		return PetFields{}, err
	}
	if out.BirthDate, err = BirthDate(raw["birthDate"]); err != nil {
		return PetFields{}, err
	}
	if out.DeathDate, err = deathDate(raw["deathDate"]); err != nil {
		return PetFields{}, err
	}
	if err := checkLifespan(out.BirthDate, out.DeathDate); err != nil {
		return PetFields{}, err
	}
	if v, ok := raw["gender"]; ok && v != nil {
		g, err := Gender(v)
		if err != nil {
			return PetFields{}, err
		}
		out.Gender = g
	}
	if out.Neutered, err = Neutered(raw["neutered"]); err != nil {
		return PetFields{}, err
	}

	return out, nil
}

// PetUpdate valida un payload parcial. Los campos ausentes quedan sin tocar.
func PetUpdate(raw Record) (PetPatch, error) {
	var p PetPatch

	for _, key := range []string{"name", "species"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		s := strings.TrimSpace(stringOf(v))
		if s == "" {
			return PetPatch{}, apperr.InvalidField(key, "name and species required", "name and species required")
		}
		if err := plainText(key, s); err != nil {
			return PetPatch{}, err
		}
		if key == "name" {
			p.Name = &s
		} else {
			p.Species = &s
		}
	}

	if _, ok := raw["breed"]; ok {
		v, err := optionalText(raw, "breed")
		if err != nil {
			return PetPatch{}, err
		}
		p.Breed = Field[string]{Set: true, Value: v}
	}
	if _, ok := raw["description"]; ok {
		v, err := optionalText(raw, "description")
		if err != nil {
			return PetPatch{}, err
		}
		p.Description = Field[string]{Set: true, Value: v}
	}
	if v, ok := raw["age"]; ok {
		a, err := optionalAge(v)
		if err != nil {
			return PetPatch{}, err
		}
		p.Age = Field[int]{Set: true, Value: a}
	}
	if v, ok := raw["birthDate"]; ok {
		d, err := BirthDate(v)
		if err != nil {
			return PetPatch{}, err
		}
		p.BirthDate = Field[time.Time]{Set: true, Value: d}
	}
	if v, ok := raw["deathDate"]; ok {
		d, err := deathDate(v)
		if err != nil {
			return PetPatch{}, err
		}
		p.DeathDate = Field[time.Time]{Set: true, Value: d}
	}
	if v, ok := raw["gender"]; ok && v != nil {
		g, err := Gender(v)
		if err != nil {
			return PetPatch{}, err
		}
		p.Gender = &g
	}
	if v, ok := raw["neutered"]; ok {
		n, err := Neutered(v)
		if err != nil {
			return PetPatch{}, err
		}
		p.Neutered = &n
	}

	return p, nil
}

// BirthDate valida una fecha de nacimiento opcional. nil o "" = ausente.
func BirthDate(v any) (*time.Time, error) {
	return optionalDate(v, apperr.InvalidField("birthDate", "invalid birthDate", "Invalid birthDate format"))
}

func deathDate(v any) (*time.Time, error) {
	return optionalDate(v, apperr.InvalidField("deathDate", "invalid deathDate", "Invalid deathDate format"))
}

// CheckLifespan exige que deathDate no sea anterior a birthDate cuando ambas existen.
func CheckLifespan(birth, death *time.Time) error {
	return checkLifespan(birth, death)
}

func checkLifespan(birth, death *time.Time) error {
	if birth != nil && death != nil && death.Before(*birth) {
		return apperr.InvalidField("deathDate", "deathDate precedes birthDate", "deathDate must not precede birthDate")
	}
	return nil
}

// Weight valida {weightKg, measuredAt?}. weightKg debe ser número > 0.
func Weight(raw Record) (WeightFields, error) {
	kg, ok := raw["weightKg"].(float64)
	if !ok || math.IsNaN(kg) || math.IsInf(kg, 0) || kg <= 0 {
		return WeightFields{}, apperr.InvalidField("weightKg", "invalid weightKg", "Invalid weightKg")
	}

	out := WeightFields{WeightKg: kg}

	switch v := raw["measuredAt"].(type) {
	case nil:
	case string:
		if strings.TrimSpace(v) == "" {
			break
		}
		t, err := ParseTimestamp(v)
		if err != nil {
			return WeightFields{}, apperr.InvalidField("measuredAt", "invalid measuredAt", "Invalid measuredAt")
		}
		out.MeasuredAt = &t
	default:
		return WeightFields{}, apperr.InvalidField("measuredAt", "invalid measuredAt", "Invalid measuredAt")
	}

	return out, nil
}

// ID parsea un segmento de path como identificador entero positivo.
// entity se usa en el mensaje público ("Invalid pet id").
func ID(entity, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, apperr.InvalidField(entity+"Id", "invalid id", "Invalid "+entity+" id")
	}
	return n, nil
}

// Gender acepta MALE|FEMALE|UNKNOWN sin importar mayúsculas.
func Gender(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", apperr.InvalidField("gender", "invalid gender", "Invalid gender")
	}
	g := strings.ToUpper(strings.TrimSpace(s))
	switch g {
	case "":
		return GenderUnknown, nil
	case GenderMale, GenderFemale, GenderUnknown:
		return g, nil
	default:
		return "", apperr.InvalidField("gender", "invalid gender", "Invalid gender")
	}
}

// Neutered coacciona a booleano. Ausente = false.
func Neutered(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case float64:
		return x != 0, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, apperr.InvalidField("neutered", "invalid neutered", "Invalid neutered")
		}
		return b, nil
	default:
		return false, apperr.InvalidField("neutered", "invalid neutered", "Invalid neutered")
	}
}

// Plan valida el plan de un usuario. Vacío = free.
func Plan(s string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(s))
	switch p {
	case "":
		return PlanFree, nil
	case PlanFree, PlanPremium:
		return p, nil
	default:
		return "", apperr.InvalidField("plan", "invalid plan", "Invalid plan")
	}
}

// Email valida y normaliza un email.
func Email(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return "", apperr.InvalidField("email", "invalid email", "Invalid email")
	}
	return strings.ToLower(addr.Address), nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp acepta RFC3339 y variantes sin zona (se asume UTC).
func ParseTimestamp(s string) (time.Time, error) {
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseTime conserva el offset enviado.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseDate acepta YYYY-MM-DD o un timestamp completo, truncado al día
// calendario de su propio offset.
func ParseDate(s string) (time.Time, error) {
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func optionalDate(v any, invalid error) (*time.Time, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		t, err := ParseDate(x)
		if err != nil {
			return nil, invalid
		}
		return &t, nil
	default:
		return nil, invalid
	}
}

func optionalAge(v any) (*int, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if x < 0 || x != math.Trunc(x) || x > math.MaxInt32 {
			return nil, apperr.InvalidField("age", "invalid age", "Invalid age")
		}
		n := int(x)
		return &n, nil
	default:
		return nil, apperr.InvalidField("age", "invalid age", "Invalid age")
	}
}

func optionalText(raw Record, key string) (*string, error) {
	switch x := raw[key].(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		if err := plainText(key, s); err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, apperr.InvalidField(key, "invalid "+key, "Invalid "+key)
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

// plainText rechaza texto con markup HTML. El valor se guarda tal cual
// llegó; si el sanitizer lo cambiaría, es un 400.
func plainText(key, s string) error {
	if html.UnescapeString(textPolicy.Sanitize(s)) != s {
		return apperr.InvalidField(key, key+" contains markup", "Invalid "+key)
	}
	return nil
}
