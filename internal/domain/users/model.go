package users

// Plan es el plan comercial de la cuenta.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// User es la cuenta dueña de mascotas.
type User struct {
	ID    int64
	Email string
	Plan  Plan
}
