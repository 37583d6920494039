package models

type BookingStatus string

const (
	BookingBooked    BookingStatus = "booked"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID        int64         `json:"id"`
	ClientID  int64         `json:"client_id"`
	SessionID int64         `json:"session_id"`
	Status    BookingStatus `json:"status"`
	CreatedAt Timestamp     `json:"created_at"`
	UpdatedAt Timestamp     `json:"updated_at"`
}
