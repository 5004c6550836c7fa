package workflow

import "fmt"

// Status is a case's position in the booking workflow. The string values are
// the labels shown to users and stored in the database.
type Status string

const (
	StatusCaseBooked              Status = "Case Booked"
	StatusOrderPreparation        Status = "Order Preparation"
	StatusOrderPrepared           Status = "Order Prepared"
	StatusSalesApproval           Status = "Sales Approval"
	StatusPendingDeliveryHospital Status = "Pending Delivery (Hospital)"
	StatusDeliveredHospital       Status = "Delivered (Hospital)"
	StatusCaseCompleted           Status = "Case Completed"
	StatusPendingDeliveryOffice   Status = "Pending Delivery (Office)"
	StatusDeliveredOffice         Status = "Delivered (Office)"
	StatusToBeBilled              Status = "To be billed"
	StatusCaseClosed              Status = "Case Closed"
	StatusCaseCancelled           Status = "Case Cancelled"
)

// AllStatuses lists every status in workflow order, cancelled last.
var AllStatuses = []Status{
	StatusCaseBooked,
	StatusOrderPreparation,
	StatusOrderPrepared,
	StatusSalesApproval,
	StatusPendingDeliveryHospital,
	StatusDeliveredHospital,
	StatusCaseCompleted,
	StatusPendingDeliveryOffice,
	StatusDeliveredOffice,
	StatusToBeBilled,
	StatusCaseClosed,
	StatusCaseCancelled,
}

// statusAliases maps legacy labels to their canonical status.
var statusAliases = map[string]Status{
	"Preparing Order": StatusOrderPreparation,
}

func ParseStatus(s string) (Status, error) {
	if canonical, ok := statusAliases[s]; ok {
		return canonical, nil
	}
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// IsTerminal reports whether the status has no legal outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCaseClosed || s == StatusCaseCancelled
}

// successors is the transition table. Cancellation is handled separately:
// Case Cancelled is reachable from every non-terminal status.
var successors = map[Status][]Status{
	StatusCaseBooked:              {StatusOrderPreparation},
	StatusOrderPreparation:        {StatusOrderPrepared},
	StatusOrderPrepared:           {StatusSalesApproval, StatusPendingDeliveryHospital},
	StatusSalesApproval:           {StatusPendingDeliveryHospital},
	StatusPendingDeliveryHospital: {StatusDeliveredHospital},
	StatusDeliveredHospital:       {StatusCaseCompleted},
	StatusCaseCompleted:           {StatusPendingDeliveryOffice},
	StatusPendingDeliveryOffice:   {StatusDeliveredOffice},
	StatusDeliveredOffice:         {StatusToBeBilled},
	StatusToBeBilled:              {StatusCaseClosed},
	StatusCaseClosed:              {},
	StatusCaseCancelled:           {},
}

// Successors returns the declared next statuses of s, excluding cancellation.
func Successors(s Status) []Status {
	next := successors[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsLegalTransition reports whether from→to exists in the transition table.
// Moving to Case Cancelled is legal from any non-terminal status.
func IsLegalTransition(from, to Status) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	if to == StatusCaseCancelled {
		return true
	}
	for _, next := range successors[from] {
		if next == to {
			return true
		}
	}
	return false
}
