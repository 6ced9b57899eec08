package models

import "time"

// PaymentStatusConfirmed is the only status a stored booking ever carries.
const PaymentStatusConfirmed = "confirmed"

// BookingRecord is an approved, persisted booking. It is never updated.
type BookingRecord struct {
	BookingID     string    `json:"bookingId"`
	UserID        string    `json:"userId"`
	CarID         string    `json:"carId"`
	Quantity      int       `json:"quantity"`
	PaymentStatus string    `json:"paymentStatus"`
	Timestamp     time.Time `json:"timestamp"`
}

// NotificationEvent is the queue payload for an approved booking. Quantity is
// left out on purpose: the consumer reads it back from the cart.
type NotificationEvent struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	CarID     string `json:"carId"`
}

// CartEntry is one car in a user's cart. Quantity is rental days.
type CartEntry struct {
	UserID   string `json:"UserId" validate:"required"`
	CarID    string `json:"CarId" validate:"required"`
	Quantity int    `json:"Quantity" validate:"min=1"`
}
