package services

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
)

const (
	maxTitleLength     = 255
	minDurationMinutes = 15
	maxDurationMinutes = 480
	// NUMERIC(10,2) upper bound.
	maxPrice = 99999999.99
)

// CreateSessionInput carries the raw request values. Duration and Price stay
// textual so "60" and 60 are treated alike and malformed numbers can be
// reported per field.
type CreateSessionInput struct {
	Title       string
	Description string
	Date        string
	Time        string
	Duration    string
	Price       string
}

type validSession struct {
	title           string
	description     string
	date            string
	time            string
	durationMinutes int
	price           float64
}

func validateCreateSession(input CreateSessionInput, today string) (validSession, error) {
	var out validSession
	errs := ValidationErrors{}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	date := strings.TrimSpace(input.Date)
	clock := strings.TrimSpace(input.Time)
	duration := strings.TrimSpace(input.Duration)
	price := strings.TrimSpace(input.Price)

	switch {
	case title == "":
		errs.Add("title", required("title"))
	case utf8.RuneCountInString(title) > maxTitleLength:
		errs.Add("title", "The title field must not be greater than 255 characters.")
	default:
		out.title = title
	}

	if description == "" {
		errs.Add("description", required("description"))
	} else {
		out.description = description
	}

	if date == "" {
		errs.Add("date", required("date"))
	} else if parsed, err := time.Parse(models.DateLayout, date); err != nil {
		errs.Add("date", "The date field must be a valid date.")
	} else if normalized := parsed.Format(models.DateLayout); normalized < today {
		errs.Add("date", "The date field must be a date after or equal to today.")
	} else {
		out.date = normalized
	}

	if clock == "" {
		errs.Add("time", required("time"))
	} else if normalized, ok := parseClock(clock); !ok {
		errs.Add("time", "The time field must match the format H:i.")
	} else {
		out.time = normalized
	}

	if duration == "" {
		errs.Add("duration", required("duration"))
	} else if minutes, err := strconv.Atoi(duration); err != nil {
		errs.Add("duration", "The duration field must be an integer.")
	} else if minutes < minDurationMinutes {
		errs.Add("duration", "The duration field must be at least 15.")
	} else if minutes > maxDurationMinutes {
		errs.Add("duration", "The duration field must not be greater than 480.")
	} else {
		out.durationMinutes = minutes
	}

	if price == "" {
		errs.Add("price", required("price"))
	} else if amount, err := strconv.ParseFloat(price, 64); err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		errs.Add("price", "The price field must be a number.")
	} else if amount < 0 {
		errs.Add("price", "The price field must be at least 0.")
	} else if rounded := math.Round(amount*100) / 100; rounded > maxPrice {
		errs.Add("price", "The price field must not be greater than 99999999.99.")
	} else {
		out.price = rounded
	}

	if err := errs.orNil(); err != nil {
		return validSession{}, err
	}
	return out, nil
}

func required(field string) string {
	return "The " + field + " field is required."
}

// parseClock accepts exactly HH:MM on a 24 hour clock.
func parseClock(value string) (string, bool) {
	if len(value) != len(models.TimeLayout) || value[2] != ':' {
		return "", false
	}
	parsed, err := time.Parse(models.TimeLayout, value)
	if err != nil {
		return "", false
	}
	return parsed.Format(models.TimeLayout), true
}
