package enums

import "fmt"

// RentalStatus tracks an alquiler through its lifecycle.
type RentalStatus string

const (
	RentalStatusReservado RentalStatus = "reservado"
	RentalStatusActivo    RentalStatus = "activo"
	RentalStatusDevuelto  RentalStatus = "devuelto"
	RentalStatusVencido   RentalStatus = "vencido"
	RentalStatusCancelado RentalStatus = "cancelado"
)

var validRentalStatuses = []RentalStatus{
	RentalStatusReservado,
	RentalStatusActivo,
	RentalStatusDevuelto,
	RentalStatusVencido,
	RentalStatusCancelado,
}

// String implements fmt.Stringer.
func (r RentalStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RentalStatus.
func (r RentalStatus) IsValid() bool {
	for _, candidate := range validRentalStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRentalStatus converts raw input into a RentalStatus.
func ParseRentalStatus(value string) (RentalStatus, error) {
	for _, candidate := range validRentalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rental status %q", value)
}
