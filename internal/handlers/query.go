package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/services"
)

const queryDateLayout = "2006-01-02"

// metricsQueryFromRequest parses from/to/lines/shifts query params. Missing
// dates default to the trailing 30 days.
func metricsQueryFromRequest(c *gin.Context) (services.MetricsQuery, error) {
	now := time.Now()
	q := services.MetricsQuery{
		From: now.AddDate(0, 0, -29),
		To:   now,
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return q, fmt.Errorf("invalid from date %q", raw)
		}
		q.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return q, fmt.Errorf("invalid to date %q", raw)
		}
		q.To = to
	}
	if q.To.Before(q.From) {
		return q, fmt.Errorf("to date before from date")
	}

	q.Lines = splitCSV(c.Query("lines"))
	q.Shifts = splitCSV(c.Query("shifts"))
	return q, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
