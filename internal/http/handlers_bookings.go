package httpx

import (
	"errors"
	"net/http"

	apperrors "github.com/sarpras/portal/internal/errors"
	"github.com/sarpras/portal/internal/ports"
)

// BookingHandlers serves the namespaced read endpoints behind the
// gate. The booking workflows themselves live behind the ports; only
// listing is exposed here.
type BookingHandlers struct {
	Bookings ports.BookingReader
	Catalog  ports.ServiceCatalog
}

// ListMine handles GET /user/api/bookings: the caller's bookings in
// the caller's namespace.
func (h *BookingHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "NO_TOKEN", Err: errUnauthenticated})
		return
	}
	if h.Bookings == nil {
		WriteError(w, ErrorParams{
			Code: http.StatusNotImplemented, ErrCode: "not_implemented",
			Err: errors.New("booking backend not configured"),
		})
		return
	}

	bookings, err := h.Bookings.ListForUser(r.Context(), p.Namespace, p.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// ListServices handles GET /admin/api/services: the namespace's
// bookable catalog.
func (h *BookingHandlers) ListServices(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "NO_TOKEN", Err: errUnauthenticated})
		return
	}
	if h.Catalog == nil {
		WriteError(w, ErrorParams{
			Code: http.StatusNotImplemented, ErrCode: "not_implemented",
			Err: errors.New("catalog backend not configured"),
		})
		return
	}

	services, err := h.Catalog.ListServices(r.Context(), p.Namespace)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"services": services})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case apperrors.ErrCodeValidation:
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
	case apperrors.ErrCodeTimeout:
		WriteError(w, ErrorParams{Code: http.StatusGatewayTimeout, ErrCode: "timeout", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: err})
	}
}
