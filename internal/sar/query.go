/*
Package sar builds search requests for the SAR ticketing site.
*/
package sar

import (
	"net/url"
	"strings"

	"github.com/shanehull/tripwatch/internal/types"
)

const (
	DefaultBaseURL   = "https://tickets.sar.com.sa/select-trip"
	DefaultLocale    = "en"
	DefaultDirection = "N"

	serviceType = "1"
	withCargo   = "false"
)

type param struct {
	key   string
	value string
}

// QueryBuilder maps a route and date onto the site's select-trip URL. The
// site rejects queries that reorder or drop parameters.
type QueryBuilder struct {
	baseURL string
	locale  string
}

// NewQueryBuilder returns a builder for baseURL. Empty arguments fall back to
// the public site and English.
func NewQueryBuilder(baseURL, locale string) *QueryBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if locale == "" {
		locale = DefaultLocale
	}
	return &QueryBuilder{baseURL: baseURL, locale: locale}
}

func (b *QueryBuilder) Build(route types.RouteSpec, date types.CandidateDate) types.SearchRequest {
	direction := route.Direction
	if direction == "" {
		direction = DefaultDirection
	}

	params := []param{
		{"DepartureStation", route.From},
		{"ArrivalStation", route.To},
		{"DepartureDateString", date.String()},
		{"AdultCount", "1"},
		{"ChildCount", "0"},
		{"InfantCount", "0"},
		{"DisabledCount", "0"},
		{"CarerCount", "0"},
		{"passengersCount", "1"},
		{"Lang", b.locale},
		{"serviceType", serviceType},
		{"WithCarCargo", withCargo},
		{"TripDirection", direction},
	}

	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteByte('?')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}

	return types.SearchRequest{
		Route: route,
		Date:  date,
		URL:   sb.String(),
	}
}
