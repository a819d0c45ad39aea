// Package models provides data model definitions for the logbook.
package models

import (
	"fmt"
	"time"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
)

// DateLayout is the calendar date wire format.
const DateLayout = "2006-01-02"

// TimeLayout is the clock time wire format.
const TimeLayout = "15:04"

// LogEntry represents one logged activity: a date, a time range, a title,
// free-text detail and an optional reference to a stored supporting image.
// DokumenPendukung holds the image reference key, never the raw payload.
type LogEntry struct {
	ID               string `db:"id" json:"id"`
	Tanggal          string `db:"tanggal" json:"tanggal"`
	JamMulai         string `db:"jam_mulai" json:"jam_mulai"`
	JamSelesai       string `db:"jam_selesai" json:"jam_selesai,omitempty"`
	JudulKegiatan    string `db:"judul_kegiatan" json:"judul_kegiatan"`
	RincianKegiatan  string `db:"rincian_kegiatan" json:"rincian_kegiatan"`
	DokumenPendukung string `db:"dokumen_pendukung" json:"dokumen_pendukung,omitempty"`
	UserID           int64  `db:"user_id" json:"-"`
	CreatedAt        int64  `db:"created_at" json:"created_at,omitempty"`
}

// TableName returns the table name for LogEntry.
func (LogEntry) TableName() string {
	return "logbook_entries"
}

// Validate checks the required fields. A violation is a VALIDATION_ERROR.
func (e *LogEntry) Validate() error {
	switch {
	case e.Tanggal == "":
		return errors.New(errors.ErrValidation, "tanggal is required")
	case e.JamMulai == "":
		return errors.New(errors.ErrValidation, "jam_mulai is required")
	case e.JudulKegiatan == "":
		return errors.New(errors.ErrValidation, "judul_kegiatan is required")
	case e.RincianKegiatan == "":
		return errors.New(errors.ErrValidation, "rincian_kegiatan is required")
	}
	if _, err := time.Parse(DateLayout, e.Tanggal); err != nil {
		return errors.Wrap(errors.ErrValidation, "invalid tanggal, expected YYYY-MM-DD", err)
	}
	if _, err := ParseClock(e.JamMulai); err != nil {
		return err
	}
	if e.JamSelesai != "" {
		if _, err := ParseClock(e.JamSelesai); err != nil {
			return err
		}
	}
	return nil
}

// ParseClock parses an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrValidation, "invalid time format, expected HH:MM", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DurationMinutes returns the entry duration in minutes.
// A missing, unparsable or non-positive range yields 0, never an error.
func (e *LogEntry) DurationMinutes() int {
	if e.JamMulai == "" || e.JamSelesai == "" {
		return 0
	}
	start, err := ParseClock(e.JamMulai)
	if err != nil {
		return 0
	}
	end, err := ParseClock(e.JamSelesai)
	if err != nil {
		return 0
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Before reports whether e sorts before other in display order,
// ascending by (tanggal, jam_mulai).
func (e *LogEntry) Before(other *LogEntry) bool {
	if e.Tanggal != other.Tanggal {
		return e.Tanggal < other.Tanggal
	}
	return e.JamMulai < other.JamMulai
}

// JamRange renders the time range the way the document generator expects:
// "HH:MM" when there is no end time, "HH:MM - HH:MM" otherwise.
func (e *LogEntry) JamRange() string {
	if e.JamSelesai == "" {
		return e.JamMulai
	}
	return fmt.Sprintf("%s - %s", e.JamMulai, e.JamSelesai)
}

// CreatedAtTime returns CreatedAt as time.Time.
func (e *LogEntry) CreatedAtTime() time.Time {
	return time.Unix(e.CreatedAt, 0)
}
