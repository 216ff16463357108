package model

import "time"

// Container represents one tracked shipment.
//
// Optional columns are pointers so that a missing value serializes as JSON
// null, the same way the row store returns it.
type Container struct {
	ID                  int64     `json:"id"`
	UserID              string    `json:"user_id"`
	ContainerNumber     string    `json:"container_number"`
	DeparturePort       string    `json:"departure_port"`
	ArrivalPort         string    `json:"arrival_port"`
	DepartureDate       *string   `json:"departure_date"`
	ExpectedArrivalDate *string   `json:"expected_arrival_date"`
	ActualArrivalDate   *string   `json:"actual_arrival_date"`
	Status              string    `json:"status"`
	CargoDescription    *string   `json:"cargo_description"`
	TrackingNumber      *string   `json:"tracking_number"`
	ShippingLine        *string   `json:"shipping_line"`
	Notes               *string   `json:"notes"`
	ProductImages       *string   `json:"product_images"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Container statuses.
const (
	StatusPending   = "pending"
	StatusDeparted  = "departed"
	StatusInTransit = "in_transit"
	StatusArrived   = "arrived"
	StatusDelayed   = "delayed"
)

// Statuses lists every valid container status.
var Statuses = []string{StatusPending, StatusDeparted, StatusInTransit, StatusArrived, StatusDelayed}

// ValidStatus reports whether s is one of the five container statuses.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}
