package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/reservation-backend/internal/reservation/application"
	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("reservation-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/reservations", h.createReservation)
	r.Get("/reservations", h.listReservations)
	r.Get("/reservations/{id}", h.getReservation)
	r.Patch("/reservations/{id}/status", h.updateStatus)
	return r
}

type createReservationReq struct {
	CustomerID uuid.UUID `json:"customer_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateReservation")
	defer span.End()

	var req createReservationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.EndTime.IsZero() && !req.StartTime.IsZero() {
		// Slots are an hour by convention; end_time is informational.
		req.EndTime = req.StartTime.Add(time.Hour)
	}

	res, err := h.service.CreateReservation(ctx, req.CustomerID, req.StartTime, req.EndTime)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(h.serialize(ctx, res))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateReservationStatus")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.UpdateStatus(ctx, id, status)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "reservation not found")
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.log.Error("update status failed", "reservation_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.serialize(ctx, res))
}

func (h *Handler) getReservation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	res, err := h.service.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "reservation not found")
		return
	}
	if err != nil {
		h.log.Error("get reservation failed", "reservation_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.serialize(r.Context(), res))
}

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	var status *domain.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = &s
	}

	list, err := h.service.List(r.Context(), status)
	if err != nil {
		h.log.Error("list reservations failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]reservationJSON, 0, len(list))
	for _, res := range list {
		out = append(out, h.serialize(r.Context(), res))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
