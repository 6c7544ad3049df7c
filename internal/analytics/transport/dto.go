package transport

import "sakkanal_backend/internal/analytics/aggregate"

// RangeQuery selects a dashboard window: 7d, 30d, 90d or 1y.
type RangeQuery struct {
	Range string `form:"range"`
}

// HotLeadsQuery caps the hot lead ranking.
type HotLeadsQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// TimeSeriesQuery selects the bucket size and the number of days back.
type TimeSeriesQuery struct {
	Granularity string `form:"granularity" validate:"omitempty,oneof=day week month"`
	Days        int    `form:"days" validate:"omitempty,min=1,max=366"`
}

type ConversionRateResponse struct {
	Range string `json:"range"`
	aggregate.ConversionStats
}

type HotLeadsResponse struct {
	Items []aggregate.HotLead `json:"items"`
}

type FunnelResponse struct {
	Stages []aggregate.FunnelStage `json:"stages"`
}

type SourcesResponse struct {
	Range string                  `json:"range"`
	Items []aggregate.SourceCount `json:"items"`
}

type TrendsResponse struct {
	Granularity string                 `json:"granularity"`
	Items       []aggregate.TrendPoint `json:"items"`
}

type VisitStatsResponse struct {
	Range string `json:"range"`
	aggregate.VisitStats
}

// DashboardResponse gathers every panel of the analytics page.
type DashboardResponse struct {
	Range          string                    `json:"range"`
	ConversionRate aggregate.ConversionStats `json:"conversionRate"`
	HotLeads       []aggregate.HotLead       `json:"hotLeads"`
	Funnel         []aggregate.FunnelStage   `json:"funnel"`
	LeadSources    []aggregate.SourceCount   `json:"leadSources"`
	MonthlyTrends  []aggregate.TrendPoint    `json:"monthlyTrends"`
	VisitStats     aggregate.VisitStats      `json:"visitStats"`
	TrafficSources []aggregate.SourceCount   `json:"trafficSources"`
}
