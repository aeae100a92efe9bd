// export.go implements GET /trips/{tripId}/export.
// Returns a trip and its activities as a flat table.
// Supports ?format=csv (CSV) or default (JSON).

package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/pkordes/planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "destination", "trip_starts_at", "trip_ends_at", "trip_is_confirmed",
	"day", "activity_title", "activity_occurs_at",
}

// ExportRowResponse is one JSON row of an itinerary export.
// Activity fields are omitted for a trip with no activities.
type ExportRowResponse struct {
	TripID           string     `json:"trip_id"`
	Destination      string     `json:"destination"`
	TripStartsAt     time.Time  `json:"trip_starts_at"`
	TripEndsAt       time.Time  `json:"trip_ends_at"`
	TripIsConfirmed  bool       `json:"trip_is_confirmed"`
	Day              *int       `json:"day,omitempty"`
	ActivityTitle    *string    `json:"activity_title,omitempty"`
	ActivityOccursAt *time.Time `json:"activity_occurs_at,omitempty"`
}

// GetExport handles GET /trips/{tripId}/export.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var format *string
	if !queryParam(w, r, "format", &format) {
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "format must be csv or json", nil)
		return
	}

	rows, err := s.svc.Export.Export(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(rows, func(row domain.ExportRow, _ int) ExportRowResponse {
		return domainRowToResponse(row)
	}))
}

// writeCSV encodes rows into a buffer first so a failure can still become a 500.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func domainRowToResponse(r domain.ExportRow) ExportRowResponse {
	out := ExportRowResponse{
		TripID:           r.TripID,
		Destination:      r.Destination,
		TripStartsAt:     r.TripStartsAt,
		TripEndsAt:       r.TripEndsAt,
		TripIsConfirmed:  r.TripIsConfirmed,
		ActivityOccursAt: r.ActivityOccursAt,
	}
	if r.ActivityOccursAt != nil {
		out.Day = lo.ToPtr(r.Day)
		out.ActivityTitle = lo.ToPtr(r.ActivityTitle)
	}
	return out
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Activity columns are empty for a trip with no activities.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	day := ""
	if r.Day > 0 {
		day = strconv.Itoa(r.Day)
	}
	return []string{
		r.TripID,
		r.Destination,
		r.TripStartsAt.UTC().Format(time.RFC3339),
		r.TripEndsAt.UTC().Format(time.RFC3339),
		strconv.FormatBool(r.TripIsConfirmed),
		day,
		r.ActivityTitle,
		formatOptionalTime(r.ActivityOccursAt),
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
