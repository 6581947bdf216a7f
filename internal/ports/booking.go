package ports

import (
	"context"

	"github.com/sarpras/portal/internal/domain/model"
)

// BookingReader is the boundary to the booking domain. The auth layer
// only needs read projections for its protected sample endpoints; the
// CRUD workflows live on the other side of this interface.
type BookingReader interface {
	ListForUser(ctx context.Context, ns string, userID int) ([]model.Booking, error)
}

// ServiceCatalog exposes the bookable services of a namespace.
type ServiceCatalog interface {
	ListServices(ctx context.Context, ns string) ([]model.Service, error)
}
