package returns

// Status is the closed set of return lifecycle states. The zero value is not a
// valid status; everything that persists a Return goes through this type.
type Status string

const (
	StatusRequested             Status = "return_requested"
	StatusApproved              Status = "return_approved"
	StatusLabelPaymentPending   Status = "return_label_payment_pending"
	StatusLabelPaymentCompleted Status = "return_label_payment_completed"
	StatusLabelGenerated        Status = "return_label_generated"
	StatusInTransit             Status = "return_in_transit"
	StatusReceived              Status = "return_received"
	StatusRefundProcessing      Status = "refund_processing"
	StatusRefunded              Status = "refunded"
	StatusRejected              Status = "return_rejected"
)

// AllStatuses in lifecycle order. Tests iterate this to keep the transition
// table and the order-status mapping in sync with the enum.
func AllStatuses() []Status {
	return []Status{
		StatusRequested,
		StatusApproved,
		StatusLabelPaymentPending,
		StatusLabelPaymentCompleted,
		StatusLabelGenerated,
		StatusInTransit,
		StatusReceived,
		StatusRefundProcessing,
		StatusRefunded,
		StatusRejected,
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusLabelPaymentPending,
		StatusLabelPaymentCompleted, StatusLabelGenerated, StatusInTransit,
		StatusReceived, StatusRefundProcessing, StatusRefunded, StatusRejected:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusRefunded || s == StatusRejected
}

// allowedNext is the edge table of the state machine. Receipt confirmation is
// allowed straight from return_label_generated because carrier tracking is
// best-effort: a parcel can arrive before the carrier ever reported transit.
var allowedNext = map[Status][]Status{
	StatusRequested:             {StatusApproved, StatusRejected},
	StatusApproved:              {StatusLabelPaymentPending},
	StatusLabelPaymentPending:   {StatusLabelPaymentCompleted},
	StatusLabelPaymentCompleted: {StatusLabelGenerated},
	StatusLabelGenerated:        {StatusInTransit, StatusReceived},
	StatusInTransit:             {StatusReceived},
	StatusReceived:              {StatusRefundProcessing},
	StatusRefundProcessing:      {StatusRefunded},
	StatusRefunded:              {},
	StatusRejected:              {},
}

func CanTransition(from, to Status) bool {
	for _, n := range allowedNext[from] {
		if n == to {
			return true
		}
	}
	return false
}

// receivableFrom are the states the admin "confirm receipt" action accepts.
var receivableFrom = []Status{StatusInTransit, StatusLabelGenerated}
