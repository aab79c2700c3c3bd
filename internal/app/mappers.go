package app

import (
	"math"
	"strconv"
	"strings"
	"time"

	"landlord_rep/internal/domain"
)

/********** alias registry (open-data field names vary by dataset) **********/

var reportAliases = map[string][]string{
	"violations":      {"violations", "violation_count", "total_violations", "hpd.violations", "metrics.violations"},
	"open_violations": {"open_violations", "openViolations", "violations_open", "hpd.open_violations", "metrics.open_violations"},
	"complaints":      {"complaints", "complaint_count", "total_complaints", "311_complaints", "metrics.complaints"},
	"litigations":     {"litigations", "litigation_count", "hpd.litigations", "metrics.litigations"},
	"evictions":       {"evictions", "eviction_filings", "executed_evictions", "metrics.evictions"},
	"notes":           {"notes", "summary", "remarks", "comment"},
	"updated_at":      {"updated_at", "updatedAt", "last_updated", "as_of", "asOf"},
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return &s
		}
	}
	return nil
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// firstIntFlexible: int from several paths (float64/int/string like "1,204").
// Negative counts are treated as missing.
func firstIntFlexible(m map[string]any, paths ...string) int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			if v >= 0 && !math.IsInf(v, 0) {
				return int(v)
			}
		case int:
			if v >= 0 {
				return v
			}
		case int64:
			if v >= 0 {
				return int(v)
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil && n >= 0 {
				return n
			}
		}
	}
	return 0
}

// firstTimeFlexible: timestamp from several paths (RFC 3339, plain dates, unix seconds).
func firstTimeFlexible(m map[string]any, paths ...string) time.Time {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			s := strings.TrimSpace(v)
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t.UTC()
				}
			}
		case float64:
			if v > 0 {
				return time.Unix(int64(v), 0).UTC()
			}
		}
	}
	return time.Time{}
}

/********** report mapper **********/

func mapReport(landlordID string, p map[string]any) domain.Report {
	return domain.Report{
		LandlordID:     landlordID,
		UpdatedAt:      firstTimeFlexible(p, reportAliases["updated_at"]...),
		Violations:     firstIntFlexible(p, reportAliases["violations"]...),
		OpenViolations: firstIntFlexible(p, reportAliases["open_violations"]...),
		Complaints:     firstIntFlexible(p, reportAliases["complaints"]...),
		Litigations:    firstIntFlexible(p, reportAliases["litigations"]...),
		Evictions:      firstIntFlexible(p, reportAliases["evictions"]...),
		Notes:          firstNonEmptyAlias(p, reportAliases, "notes"),
	}
}
