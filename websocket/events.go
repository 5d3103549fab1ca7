package websocket

// Event types for WebSocket messages
const (
	// Reservation events
	EventReservationCreated   = "reservation:created"
	EventReservationCancelled = "reservation:cancelled"

	// Refund events
	EventRefundIssued = "refund:issued"

	// Trip events
	EventTripUpdated   = "trip:updated"
	EventTripCancelled = "trip:cancelled"

	// Payment events
	EventPaymentSettled = "payment:settled"
)

// ReservationEvent represents a reservation-related event
type ReservationEvent struct {
	ReservationID uint   `json:"reservation_id"`
	TripID        uint   `json:"trip_id"`
	UserID        uint   `json:"user_id"`
	CreditsCost   int    `json:"credits_cost"`
	Status        string `json:"status"`
	Action        string `json:"action"` // created, cancelled
}

// RefundEvent represents a retroactive refund issued to a passenger
type RefundEvent struct {
	ReservationID uint `json:"reservation_id"`
	TripID        uint `json:"trip_id"`
	UserID        uint `json:"user_id"`
	Amount        int  `json:"amount"`
	NewCost       int  `json:"new_cost"`
}

// TripEvent represents a trip-related event
type TripEvent struct {
	TripID uint   `json:"trip_id"`
	Status string `json:"status"`
	Action string `json:"action"` // updated, cancelled
}

// PaymentEvent signals a settled credit purchase
type PaymentEvent struct {
	UserID  uint   `json:"user_id"`
	Credits int    `json:"credits"`
	Status  string `json:"status"`
}
