package pets

import (
	"net/http"
	"time"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/weights"
	"pet-weight-tracker/internal/middleware"
	"pet-weight-tracker/internal/validation"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service, rs *middleware.Responder) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, rs))
		pr.Post("/", createPetHandler(svc, rs))

		pr.Get("/{petID}", getPetHandler(svc, rs))
		pr.Put("/{petID}", updatePetHandler(svc, rs))
		pr.Delete("/{petID}", deletePetHandler(svc, rs))
	})
}

// petRequest documenta el cuerpo de create/update. El handler decodifica
// a un registro sin tipar para distinguir campos ausentes de null.
type petRequest struct {
	Name        string `json:"name" example:"Buddy"`
	Species     string `json:"species" example:"Dog"`
	Breed       string `json:"breed,omitempty" example:"Golden Retriever"`
	Age         int    `json:"age,omitempty" example:"4"`
	BirthDate   string `json:"birthDate,omitempty" example:"2020-06-16"` // YYYY-MM-DD
	DeathDate   string `json:"deathDate,omitempty"`                      // YYYY-MM-DD
	Gender      Gender `json:"gender,omitempty" enums:"MALE,FEMALE,UNKNOWN"`
	Neutered    bool   `json:"neutered,omitempty"`
	Description string `json:"description,omitempty"`
}

// petResponse representa una mascota devuelta por la API.
type petResponse struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"userId"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       *string   `json:"breed"`
	Age         *int      `json:"age"`
	BirthDate   *string   `json:"birthDate"`
	DeathDate   *string   `json:"deathDate"`
	Gender      Gender    `json:"gender"`
	Neutered    bool      `json:"neutered"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// petDetailResponse es la mascota con su historial de pesos (measuredAt ASC).
type petDetailResponse struct {
	petResponse
	Weights []weights.Response `json:"weights"`
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Description Mascotas del usuario autenticado, cada una con sus pesos ordenados.
// @Tags pets
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} petDetailResponse
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Router /pets [get]
func listPetsHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, _ := middleware.OwnerID(r.Context())

		items, err := svc.List(r.Context(), ownerID)
		if err != nil {
			rs.Fail(w, r, "List pets", err)
			return
		}

		out := make([]petDetailResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toDetailResponse(p))
		}
		rs.JSON(w, http.StatusOK, out)
	}
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description name y species son obligatorios. Con birthDate la edad se calcula y se ignora age.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param payload body petRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {object} middleware.ErrorBody "name and species required / Invalid birthDate format / Invalid name"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Router /pets [post]
func createPetHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.OwnerID(r.Context())
		if !ok {
			rs.Fail(w, r, "Create pet", apperr.Unauthenticated("missing owner"))
			return
		}

		raw, err := middleware.DecodeRecord(w, r)
		if err != nil {
			rs.Fail(w, r, "Create pet", err)
			return
		}
		in, err := validation.PetCreate(raw)
		if err != nil {
			rs.Fail(w, r, "Create pet", err)
			return
		}

		p, err := svc.Create(r.Context(), ownerID, in)
		if err != nil {
			rs.Fail(w, r, "Create pet", err)
			return
		}

		rs.Metrics.RecordPetCreated()
		rs.JSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Description Perfil con historial de pesos. Una mascota ajena responde 404.
// @Tags pets
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} petDetailResponse
// @Failure 400 {object} middleware.ErrorBody "Invalid pet id"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Failure 404 {object} middleware.ErrorBody "Pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, err := validation.ID("pet", chi.URLParam(r, "petID"))
		if err != nil {
			rs.Fail(w, r, "Get pet", err)
			return
		}
		ownerID, _ := middleware.OwnerID(r.Context())

		prof, err := svc.Get(r.Context(), ownerID, petID)
		if err != nil {
			rs.Fail(w, r, "Get pet", err)
			return
		}

		rs.JSON(w, http.StatusOK, toDetailResponse(prof))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description Update parcial: solo se tocan los campos enviados. null limpia un campo opcional.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param petID path int true "ID de la mascota"
// @Param payload body petRequest true "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {object} middleware.ErrorBody "Invalid pet id / name and species required / Invalid birthDate format"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Failure 404 {object} middleware.ErrorBody "Pet not found"
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, err := validation.ID("pet", chi.URLParam(r, "petID"))
		if err != nil {
			rs.Fail(w, r, "Update pet", err)
			return
		}
		raw, err := middleware.DecodeRecord(w, r)
		if err != nil {
			rs.Fail(w, r, "Update pet", err)
			return
		}
		patch, err := validation.PetUpdate(raw)
		if err != nil {
			rs.Fail(w, r, "Update pet", err)
			return
		}
		ownerID, _ := middleware.OwnerID(r.Context())

		p, err := svc.Update(r.Context(), ownerID, petID, patch)
		if err != nil {
			rs.Fail(w, r, "Update pet", err)
			return
		}

		rs.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra la mascota junto con su historial de pesos.
// @Tags pets
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} middleware.SuccessBody
// @Failure 400 {object} middleware.ErrorBody "Invalid pet id"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Failure 404 {object} middleware.ErrorBody "Pet not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, err := validation.ID("pet", chi.URLParam(r, "petID"))
		if err != nil {
			rs.Fail(w, r, "Delete pet", err)
			return
		}
		ownerID, _ := middleware.OwnerID(r.Context())

		if err := svc.Delete(r.Context(), ownerID, petID); err != nil {
			rs.Fail(w, r, "Delete pet", err)
			return
		}

		rs.JSON(w, http.StatusOK, middleware.SuccessBody{Success: true})
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		BirthDate:   formatDate(p.BirthDate),
		DeathDate:   formatDate(p.DeathDate),
		Gender:      p.Gender,
		Neutered:    p.Neutered,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func toDetailResponse(prof Profile) petDetailResponse {
	return petDetailResponse{
		petResponse: toPetResponse(prof.Pet),
		Weights:     weights.ToResponses(prof.Weights),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}
