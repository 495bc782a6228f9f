package enums

import "fmt"

// PurchaseStatus tracks a compra through its lifecycle.
type PurchaseStatus string

const (
	PurchaseStatusPendiente  PurchaseStatus = "pendiente"
	PurchaseStatusConfirmada PurchaseStatus = "confirmada"
	PurchaseStatusEnviada    PurchaseStatus = "enviada"
	PurchaseStatusEntregada  PurchaseStatus = "entregada"
	PurchaseStatusCancelada  PurchaseStatus = "cancelada"
)

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusPendiente,
	PurchaseStatusConfirmada,
	PurchaseStatusEnviada,
	PurchaseStatusEntregada,
	PurchaseStatusCancelada,
}

// String implements fmt.Stringer.
func (p PurchaseStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchaseStatus.
func (p PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePurchaseStatus converts raw input into a PurchaseStatus.
func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}
