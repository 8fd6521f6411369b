package orders

import (
	"time"

	"github.com/kiranalabs/bazaari-backend/pkg/enums"
)

// AdminOrderFilters describe the inputs supported by the admin orders list.
type AdminOrderFilters struct {
	Status      *enums.OrderStatus
	PricingRole *enums.Role
	DateFrom    *time.Time
	DateTo      *time.Time
}
