// Package export dumps the users, sessions and bookings tables for backups.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/xuri/excelize/v2"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Snapshot holds every exported table keyed by table name. Password hashes
// are never part of it.
type Snapshot struct {
	Users    []models.User    `json:"users"`
	Sessions []models.Session `json:"sessions"`
	Bookings []models.Booking `json:"bookings"`
}

// Collect reads every table inside one read-only snapshot, so the export is
// consistent even while bookings are being written.
func Collect(ctx context.Context, store repository.Store) (*Snapshot, error) {
	snapshot := &Snapshot{
		Users:    []models.User{},
		Sessions: []models.Session{},
		Bookings: []models.Booking{},
	}

	err := store.WithinSnapshot(ctx, func(tx repository.Tx) error {
		users, err := tx.Users().List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		sessions, err := tx.Sessions().List(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		bookings, err := tx.Bookings().List(ctx)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}

		if users != nil {
			snapshot.Users = users
		}
		if sessions != nil {
			snapshot.Sessions = sessions
		}
		if bookings != nil {
			snapshot.Bookings = bookings
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func WriteJSON(w io.Writer, snapshot *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(snapshot)
}

// WriteXLSX writes one sheet per table.
func WriteXLSX(w io.Writer, snapshot *Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	userRows := make([][]any, 0, len(snapshot.Users))
	for _, u := range snapshot.Users {
		userRows = append(userRows, []any{u.ID, u.Name, u.Email, string(u.Role), u.CreatedAt.String(), u.UpdatedAt.String()})
	}
	sessionRows := make([][]any, 0, len(snapshot.Sessions))
	for _, s := range snapshot.Sessions {
		sessionRows = append(sessionRows, []any{
			s.ID, s.CoachID, s.Title, s.Description, s.Date, s.Time,
			s.DurationMinutes, s.Price, string(s.Status), s.CreatedAt.String(), s.UpdatedAt.String(),
		})
	}
	bookingRows := make([][]any, 0, len(snapshot.Bookings))
	for _, b := range snapshot.Bookings {
		bookingRows = append(bookingRows, []any{b.ID, b.ClientID, b.SessionID, string(b.Status), b.CreatedAt.String(), b.UpdatedAt.String()})
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
	}{
		{"users", []string{"id", "name", "email", "role", "created_at", "updated_at"}, userRows},
		{"sessions", []string{"id", "coach_id", "title", "description", "date", "time", "duration", "price", "status", "created_at", "updated_at"}, sessionRows},
		{"bookings", []string{"id", "client_id", "session_id", "status", "created_at", "updated_at"}, bookingRows},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.rows, headerStyle); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write %s header: %w", sheet, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// ToFile collects a snapshot and writes it to path in the given format.
func ToFile(ctx context.Context, store repository.Store, format, path string) error {
	var write func(io.Writer, *Snapshot) error
	switch format {
	case FormatJSON:
		write = WriteJSON
	case FormatXLSX:
		write = WriteXLSX
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	snapshot, err := Collect(ctx, store)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := write(file, snapshot); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
