// Package aggregate holds the pure dashboard computations. Every function
// takes rows already loaded from storage and never touches I/O.
package aggregate

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses in funnel display order.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
)

var funnelOrder = []string{StatusNew, StatusContacted, StatusQualified, StatusConverted}

// LeadSnapshot is the subset of a lead the aggregations read.
type LeadSnapshot struct {
	ID              uuid.UUID
	CompanyName     string
	ContactName     string
	Email           string
	Phone           string
	Status          string
	ElectricityBill float64
	Budget          *float64
	CreatedAt       time.Time
}

// InteractionSummary is the per-lead interaction count and latest timestamp.
type InteractionSummary struct {
	Count  int
	LastAt *time.Time
}

// ConversionStats is the converted share of leads created since a date.
type ConversionStats struct {
	TotalLeads     int     `json:"totalLeads"`
	ConvertedLeads int     `json:"convertedLeads"`
	ConversionRate float64 `json:"conversionRate"`
}

// HotLead is a ranked open lead.
type HotLead struct {
	LeadID          uuid.UUID  `json:"leadId"`
	CompanyName     string     `json:"companyName"`
	ContactName     string     `json:"contactName"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Status          string     `json:"status"`
	Score           int        `json:"score"`
	LastInteraction *time.Time `json:"lastInteraction"`
}

// FunnelStage is one status bucket of the conversion funnel.
type FunnelStage struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// TrendPoint counts leads created in one period by their current status.
// NewLeads counts every lead of the period, whatever its status.
type TrendPoint struct {
	Period    string `json:"period"`
	NewLeads  int    `json:"newLeads"`
	Contacted int    `json:"contacted"`
	Qualified int    `json:"qualified"`
	Converted int    `json:"converted"`
}

// TypeCount is a raw interaction type with its number of rows.
type TypeCount struct {
	Type  string
	Count int
}

// SourceCount is a labelled count, used for lead and traffic sources.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Visit is one page-visit row.
type Visit struct {
	PagePath  string
	Referrer  string
	CreatedAt time.Time
}

// PageStat is a popular page with its share of all visits.
type PageStat struct {
	Path       string  `json:"path"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PeriodCount is the number of visits in one period.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// VisitStats summarises page visits over a time range.
type VisitStats struct {
	TotalVisits         int           `json:"totalVisits"`
	UniqueVisitors      int           `json:"uniqueVisitors"`
	AvgVisitsPerVisitor float64       `json:"avgVisitsPerVisitor"`
	PopularPages        []PageStat    `json:"popularPages"`
	VisitsOverTime      []PeriodCount `json:"visitsOverTime"`
}
