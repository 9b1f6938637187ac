package store

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// This file is the query engine (C4): the two read-only aggregations
// layered on top of the derived indices. See spec §4.4.

// VisitProjection is one entry of a GET /users/<id>/visits response.
type VisitProjection struct {
	Mark      int8   `json:"mark"`
	VisitedAt int64  `json:"visited_at"`
	Place     string `json:"place"`
}

type visitsFilter struct {
	hasFromDate   bool
	fromDate      int64
	hasToDate     bool
	toDate        int64
	hasToDistance bool
	toDistance    int32
	hasCountry    bool
	country       string
}

// visitsFilterKeys is the recognized-key allow-list for GET
// /users/<id>/visits. A raw query key outside this set is ignored
// outright (spec §4.4.1: "any other key is ignored"), including when
// its own value carries a malformed %-escape.
var visitsFilterKeys = map[string]bool{
	"fromDate":   true,
	"toDate":     true,
	"toDistance": true,
	"country":    true,
}

func parseVisitsFilter(raw string) (visitsFilter, error) {
	q, err := parseRecognizedQuery(raw, visitsFilterKeys)
	if err != nil {
		return visitsFilter{}, err
	}
	var f visitsFilter
	if v := q.Get("fromDate"); v != "" {
		f.hasFromDate = true
		if f.fromDate, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, fmt.Errorf("%w: fromDate", ErrBadQuery)
		}
	}
	if v := q.Get("toDate"); v != "" {
		f.hasToDate = true
		if f.toDate, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, fmt.Errorf("%w: toDate", ErrBadQuery)
		}
	}
	if v := q.Get("toDistance"); v != "" {
		f.hasToDistance = true
		n, perr := strconv.ParseInt(v, 10, 32)
		if perr != nil {
			return f, fmt.Errorf("%w: toDistance", ErrBadQuery)
		}
		f.toDistance = int32(n)
	}
	if q.Has("country") {
		f.hasCountry = true
		f.country = q.Get("country")
	}
	return f, nil
}

// parseRecognizedQuery splits a raw query string on "&" the way the
// original does (no escaping assumed around the separator) and, for
// each pair whose literal key is in recognized, percent-decodes the
// value with url.QueryUnescape. An unrecognized key's pair is dropped
// without ever being decoded, so a bad %-escape there never surfaces
// as an error — only a malformed escape on a recognized key's value
// is a 400.
func parseRecognizedQuery(raw string, recognized map[string]bool) (url.Values, error) {
	out := url.Values{}
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if !recognized[key] {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadQuery, key)
		}
		out.Add(key, decoded)
	}
	return out, nil
}

func (f visitsFilter) keep(e UserVisitEntry) bool {
	if f.hasFromDate && !(e.VisitedAt > f.fromDate) {
		return false
	}
	if f.hasToDate && !(e.VisitedAt < f.toDate) {
		return false
	}
	if f.hasToDistance && !(e.Distance < f.toDistance) {
		return false
	}
	if f.hasCountry && e.Country != f.country {
		return false
	}
	return true
}

// UserVisitsQuery implements GET /users/<id>/visits (spec §4.4.1). rawQuery
// is the request's raw, still-percent-encoded query string. The
// second return value is false if the user does not exist.
func (s *Store) UserVisitsQuery(id int32, rawQuery string) ([]VisitProjection, bool, error) {
	list, ok := s.UserVisits(id)
	if !ok {
		return nil, false, nil
	}
	filter, err := parseVisitsFilter(rawQuery)
	if err != nil {
		return nil, true, err
	}
	out := make([]VisitProjection, 0, len(list))
	for _, e := range list {
		if filter.keep(e) {
			out = append(out, VisitProjection{Mark: e.Mark, VisitedAt: e.VisitedAt, Place: e.Place})
		}
	}
	return out, true, nil
}

type avgFilter struct {
	hasFromDate bool
	fromDate    int64
	hasToDate   bool
	toDate      int64
	hasFromAge  bool
	fromBirth   int64
	hasToAge    bool
	toBirth     int64
	hasGender   bool
	gender      Gender
}

// yearsAgo computes T_now_minus(k years) per spec §4.4.2: the current
// UTC wall clock with k subtracted from its year, all other
// components unchanged. time.Date normalizes an out-of-range day
// (e.g. Feb 29 on a non-leap target year) into the following month
// instead of erroring, so that case is detected explicitly by
// checking the month didn't shift.
func yearsAgo(now time.Time, k int32) (time.Time, error) {
	y, m, d := now.Date()
	h, min, sec := now.Clock()
	shifted := time.Date(y-int(k), m, d, h, min, sec, now.Nanosecond(), time.UTC)
	if shifted.Month() != m {
		return time.Time{}, fmt.Errorf("%w: invalid date for age", ErrBadQuery)
	}
	return shifted, nil
}

// avgFilterKeys is the recognized-key allow-list for GET
// /locations/<id>/avg (spec §4.4.2's "any other key is ignored").
var avgFilterKeys = map[string]bool{
	"fromDate": true,
	"toDate":   true,
	"fromAge":  true,
	"toAge":    true,
	"gender":   true,
}

func parseAvgFilter(raw string, now time.Time) (avgFilter, error) {
	q, err := parseRecognizedQuery(raw, avgFilterKeys)
	if err != nil {
		return avgFilter{}, err
	}
	var f avgFilter
	if v := q.Get("fromDate"); v != "" {
		f.hasFromDate = true
		if f.fromDate, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, fmt.Errorf("%w: fromDate", ErrBadQuery)
		}
	}
	if v := q.Get("toDate"); v != "" {
		f.hasToDate = true
		if f.toDate, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, fmt.Errorf("%w: toDate", ErrBadQuery)
		}
	}
	if v := q.Get("fromAge"); v != "" {
		n, perr := strconv.ParseInt(v, 10, 32)
		if perr != nil || n < 0 {
			return f, fmt.Errorf("%w: fromAge", ErrBadQuery)
		}
		cutoff, yerr := yearsAgo(now, int32(n))
		if yerr != nil {
			return f, yerr
		}
		f.hasFromAge = true
		f.fromBirth = cutoff.Unix()
	}
	if v := q.Get("toAge"); v != "" {
		n, perr := strconv.ParseInt(v, 10, 32)
		if perr != nil || n < 0 {
			return f, fmt.Errorf("%w: toAge", ErrBadQuery)
		}
		cutoff, yerr := yearsAgo(now, int32(n))
		if yerr != nil {
			return f, yerr
		}
		f.hasToAge = true
		f.toBirth = cutoff.Unix()
	}
	if v := q.Get("gender"); v != "" {
		if v != "m" && v != "f" {
			return f, fmt.Errorf("%w: gender", ErrBadQuery)
		}
		f.hasGender = true
		f.gender = GenderFromWire(v)
	}
	return f, nil
}

func (f avgFilter) keep(e LocationMarkEntry) bool {
	if f.hasFromDate && !(e.VisitedAt > f.fromDate) {
		return false
	}
	if f.hasToDate && !(e.VisitedAt < f.toDate) {
		return false
	}
	if f.hasFromAge && !(e.BirthDate < f.fromBirth) {
		return false
	}
	if f.hasToAge && !(e.BirthDate > f.toBirth) {
		return false
	}
	if f.hasGender && e.Gender != f.gender {
		return false
	}
	return true
}

// LocationAvgQuery implements GET /locations/<id>/avg (spec §4.4.2).
// rawQuery is the request's raw, still-percent-encoded query string.
// The second return value is false if the location does not exist.
func (s *Store) LocationAvgQuery(id int32, rawQuery string, now time.Time) (string, bool, error) {
	list, ok := s.LocationMarks(id)
	if !ok {
		return "", false, nil
	}
	filter, err := parseAvgFilter(rawQuery, now)
	if err != nil {
		return "", true, err
	}
	var sum float64
	var n int
	for _, e := range list {
		if filter.keep(e) {
			sum += float64(e.Mark)
			n++
		}
	}
	if n == 0 {
		return "0", true, nil
	}
	return formatAvg(sum / float64(n)), true, nil
}

// formatAvg implements spec §4.4.2's rounding rule: 5 fractional
// digits, trailing zeros stripped, at least one digit kept after the
// decimal point.
func formatAvg(v float64) string {
	s := strconv.FormatFloat(v, 'f', 5, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
