package models

type SessionStatus string

const (
	SessionAvailable SessionStatus = "available"
	SessionBooked    SessionStatus = "booked"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Session struct {
	ID              int64         `json:"id"`
	CoachID         int64         `json:"coach_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Date            string        `json:"date"`
	Time            string        `json:"time"`
	DurationMinutes int           `json:"duration"`
	Price           float64       `json:"price"`
	Status          SessionStatus `json:"status"`
	CreatedAt       Timestamp     `json:"created_at"`
	UpdatedAt       Timestamp     `json:"updated_at"`
}

// CoachSummary is the only slice of the owning coach exposed to clients.
type CoachSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AvailableSession struct {
	Session
	Coach CoachSummary `json:"coach"`
}

type BookedSession struct {
	Session
	Coach         CoachSummary  `json:"coach"`
	BookingID     int64         `json:"booking_id"`
	BookingDate   string        `json:"booking_date"`
	BookingStatus BookingStatus `json:"booking_status"`
}
