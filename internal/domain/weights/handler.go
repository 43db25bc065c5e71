package weights

import (
	"net/http"
	"time"

	"pet-weight-tracker/internal/middleware"
	"pet-weight-tracker/internal/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, rs *middleware.Responder) {
	r.Route("/pets/{petID}/weights", func(wr chi.Router) {
		wr.Get("/", listWeightsHandler(svc, rs))
		wr.Post("/", createWeightHandler(svc, rs))

		// Update y delete matchean por (weightID, petID).
		wr.Put("/{weightID}", updateWeightHandler(svc, rs))
		wr.Delete("/{weightID}", deleteWeightHandler(svc, rs))
	})
}

// weightRequest es el cuerpo de create y update.
type weightRequest struct {
	WeightKg   float64 `json:"weightKg" example:"12.5"`
	MeasuredAt string  `json:"measuredAt,omitempty" example:"2024-06-15T10:00:00Z"` // opcional
}

// Response es una medición de peso devuelta por la API.
type Response struct {
	ID         int64     `json:"id"`
	PetID      int64     `json:"petId"`
	WeightKg   float64   `json:"weightKg"`
	MeasuredAt time.Time `json:"measuredAt"`
}

func ToResponse(w WeightLog) Response {
	return Response{
		ID:         w.ID,
		PetID:      w.PetID,
		WeightKg:   w.WeightKg,
		MeasuredAt: w.MeasuredAt.UTC(),
	}
}

// ToResponses nunca devuelve nil, así el JSON es [] y no null.
func ToResponses(items []WeightLog) []Response {
	out := make([]Response, 0, len(items))
	for _, w := range items {
		out = append(out, ToResponse(w))
	}
	return out
}

// listWeightsHandler godoc
// @Summary Listar pesos de una mascota
// @Description Historial ordenado por measuredAt ascendente. Solo el dueño.
// @Tags weights
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param petID path int true "ID de la mascota"
// @Success 200 {array} Response
// @Failure 400 {object} middleware.ErrorBody "Invalid pet id"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Failure 404 {object} middleware.ErrorBody "Pet not found"
// @Router /pets/{petID}/weights [get]
func listWeightsHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, err := validation.ID("pet", chi.URLParam(r, "petID"))
		if err != nil {
			rs.Fail(w, r, "List weights", err)
			return
		}
		ownerID, _ := middleware.OwnerID(r.Context())

		items, err := svc.List(r.Context(), ownerID, petID)
		if err != nil {
			rs.Fail(w, r, "List weights", err)
			return
		}

		rs.JSON(w, http.StatusOK, ToResponses(items))
	}
}

// createWeightHandler godoc
// @Summary Registrar peso
// @Description weightKg debe ser > 0. Sin measuredAt se usa la hora actual.
// @Tags weights
// @Accept json
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param petID path int true "ID de la mascota"
// @Param payload body weightRequest true "Peso"
// @Success 201 {object} Response
// @Failure 400 {object} middleware.ErrorBody "Invalid weightKg / Invalid measuredAt"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Failure 404 {object} middleware.ErrorBody "Pet not found"
// @Router /pets/{petID}/weights [post]
func createWeightHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, err := validation.ID("pet", chi.URLParam(r, "petID"))
		if err != nil {
			rs.Fail(w, r, "Create weight", err)
			return
		}
		in, ok := decodeWeight(w, r, rs, "Create weight")
		if !ok {
			return
		}
		ownerID, _ := middleware.OwnerID(r.Context())

		created, err := svc.Create(r.Context(), ownerID, petID, in)
		if err != nil {
			rs.Fail(w, r, "Create weight", err)
			return
		}

		rs.Metrics.RecordWeightRecorded()
		rs.JSON(w, http.StatusCreated, ToResponse(created))
	}
}

// updateWeightHandler godoc
// @Summary Actualizar peso
// @Description El registro debe pertenecer a la mascota del path; si no, 404.
// @Tags weights
// @Accept json
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param petID path int true "ID de la mascota"
// @Param weightID path int true "ID del registro de peso"
// @Param payload body weightRequest true "Peso"
// @Success 200 {object} Response
// @Failure 400 {object} middleware.ErrorBody "Invalid weightKg / Invalid weight id"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Failure 404 {object} middleware.ErrorBody "Pet not found / Weight not found"
// @Router /pets/{petID}/weights/{weightID} [put]
func updateWeightHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, weightID, err := weightPath(r)
		if err != nil {
			rs.Fail(w, r, "Update weight", err)
			return
		}
		in, ok := decodeWeight(w, r, rs, "Update weight")
		if !ok {
			return
		}
		ownerID, _ := middleware.OwnerID(r.Context())

		updated, err := svc.Update(r.Context(), ownerID, petID, weightID, in)
		if err != nil {
			rs.Fail(w, r, "Update weight", err)
			return
		}

		rs.JSON(w, http.StatusOK, ToResponse(updated))
	}
}

// deleteWeightHandler godoc
// @Summary Borrar peso
// @Description Un segundo delete del mismo id responde 404.
// @Tags weights
// @Produce json
// @Param X-User-ID header int false "ID del usuario (modo header confiable)"
// @Param Authorization header string false "Bearer token"
// @Param petID path int true "ID de la mascota"
// @Param weightID path int true "ID del registro de peso"
// @Success 200 {object} middleware.SuccessBody
// @Failure 400 {object} middleware.ErrorBody "Invalid weight id"
// @Failure 401 {object} middleware.ErrorBody "Unauthenticated"
// @Failure 404 {object} middleware.ErrorBody "Pet not found / Weight not found"
// @Router /pets/{petID}/weights/{weightID} [delete]
func deleteWeightHandler(svc *Service, rs *middleware.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, weightID, err := weightPath(r)
		if err != nil {
			rs.Fail(w, r, "Delete weight", err)
			return
		}
		ownerID, _ := middleware.OwnerID(r.Context())

		if err := svc.Delete(r.Context(), ownerID, petID, weightID); err != nil {
			rs.Fail(w, r, "Delete weight", err)
			return
		}

		rs.JSON(w, http.StatusOK, middleware.SuccessBody{Success: true})
	}
}

func weightPath(r *http.Request) (petID, weightID int64, err error) {
	if petID, err = validation.ID("pet", chi.URLParam(r, "petID")); err != nil {
		return 0, 0, err
	}
	if weightID, err = validation.ID("weight", chi.URLParam(r, "weightID")); err != nil {
		return 0, 0, err
	}
	return petID, weightID, nil
}

func decodeWeight(w http.ResponseWriter, r *http.Request, rs *middleware.Responder, op string) (validation.WeightFields, bool) {
	raw, err := middleware.DecodeRecord(w, r)
	if err != nil {
		rs.Fail(w, r, op, err)
		return validation.WeightFields{}, false
	}
	in, err := validation.Weight(raw)
	if err != nil {
		rs.Fail(w, r, op, err)
		return validation.WeightFields{}, false
	}
	return in, true
}
