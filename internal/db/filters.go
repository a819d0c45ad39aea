// Package db provides query filter building for entry listings.
package db

import (
	"strings"
	"time"

	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
)

// Filter is one WHERE-clause condition.
type Filter interface {
	// SQL returns the SQL fragment for this filter.
	SQL() string

	// Args returns the arguments for this filter.
	Args() []interface{}

	// Valid checks if the filter is valid.
	Valid() bool
}

// DateRangeFilter filters entries by calendar date. Bounds are inclusive
// YYYY-MM-DD strings; an empty bound leaves that side open. The column is
// stored in the same format, so lexical comparison is correct.
type DateRangeFilter struct {
	From string
	To   string
}

// Valid checks that at least one bound is set and both parse as dates.
func (f *DateRangeFilter) Valid() bool {
	if f.From == "" && f.To == "" {
		return false
	}
	for _, bound := range []string{f.From, f.To} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, bound); err != nil {
			return false
		}
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		return false
	}
	return true
}

// SQL returns the SQL fragment for date filtering.
func (f *DateRangeFilter) SQL() string {
	var parts []string
	if f.From != "" {
		parts = append(parts, "tanggal >= ?")
	}
	if f.To != "" {
		parts = append(parts, "tanggal <= ?")
	}
	return strings.Join(parts, " AND ")
}

// Args returns the arguments for date filtering.
func (f *DateRangeFilter) Args() []interface{} {
	var args []interface{}
	if f.From != "" {
		args = append(args, f.From)
	}
	if f.To != "" {
		args = append(args, f.To)
	}
	return args
}

// OwnerFilter restricts entries to one user.
type OwnerFilter struct {
	UserID int64
}

// Valid checks the owner filter.
func (f *OwnerFilter) Valid() bool {
	return f.UserID > 0
}

// SQL returns the SQL fragment for owner filtering.
func (f *OwnerFilter) SQL() string {
	return "user_id = ?"
}

// Args returns the arguments for owner filtering.
func (f *OwnerFilter) Args() []interface{} {
	return []interface{}{f.UserID}
}

// FilterBuilder accumulates filters into a WHERE clause.
type FilterBuilder struct {
	filters []Filter
}

// NewFilterBuilder creates an empty FilterBuilder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// DateRange adds a date range filter. Invalid ranges are ignored.
func (fb *FilterBuilder) DateRange(from, to string) *FilterBuilder {
	filter := &DateRangeFilter{From: from, To: to}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// Owner adds an owner filter.
func (fb *FilterBuilder) Owner(userID int64) *FilterBuilder {
	filter := &OwnerFilter{UserID: userID}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// HasFilters returns true if any filters have been added.
func (fb *FilterBuilder) HasFilters() bool {
	return len(fb.filters) > 0
}

// Build returns the WHERE clause body and its arguments. An empty builder
// yields an empty fragment.
func (fb *FilterBuilder) Build() (string, []interface{}) {
	if !fb.HasFilters() {
		return "", nil
	}
	var parts []string
	var args []interface{}
	for _, filter := range fb.filters {
		parts = append(parts, filter.SQL())
		args = append(args, filter.Args()...)
	}
	return strings.Join(parts, " AND "), args
}
