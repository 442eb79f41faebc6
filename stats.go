package main

import (
	"cmp"
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/cor0nius/cityreg/internal/registration"
)

type cityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type statsResponse struct {
	EventID string      `json:"event_id,omitempty"`
	Total   int64       `json:"total"`
	Cities  []cityCount `json:"cities"`
	More    int         `json:"more"`
}

// buildStats sums the per-city counts and keeps the topN largest cities,
// ordered by count descending then city name. More is the number of cities
// left out.
func buildStats(eventID string, counts []cityCount, topN int) statsResponse {
	sorted := slices.Clone(counts)
	slices.SortStableFunc(sorted, func(a, b cityCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.City, b.City)
	})

	var total int64
	for _, c := range sorted {
		total += c.Count
	}

	more := 0
	if topN > 0 && len(sorted) > topN {
		more = len(sorted) - topN
		sorted = sorted[:topN]
	}
	if sorted == nil {
		sorted = []cityCount{}
	}
	return statsResponse{
		EventID: eventID,
		Total:   total,
		Cities:  sorted,
		More:    more,
	}
}

var csvHeader = []string{"UserID", "EventID", "Username", "FirstName", "LastName", "City", "RegisteredAt"}

// writeRegistrationsCSV writes one row per registration with RFC 4180 quoting.
func writeRegistrationsCSV(w io.Writer, regs []registration.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, reg := range regs {
		record := []string{
			strconv.FormatInt(reg.UserID, 10),
			reg.EventID,
			reg.Username,
			reg.FirstName,
			reg.LastName,
			reg.City,
			reg.RegisteredAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// eventLink is the invite link that starts a registration for eventID.
func eventLink(botUsername, eventID string) string {
	if botUsername == "" {
		return ""
	}
	return "https://t.me/" + botUsername + "?start=" + eventID
}
