// Package transport defines the JSON shapes of the reporting API.
package transport

import "github.com/google/uuid"

// ReportQuery holds the window and grouping filters shared by the report
// endpoints.
type ReportQuery struct {
	From            string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To              string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	GroupBy         string `form:"groupBy" validate:"omitempty,oneof=day week month"`
	AccommodationID string `form:"accommodationId" validate:"omitempty,uuid"`
	OperatorID      string `form:"operatorId" validate:"omitempty,uuid"`
}

// LeadMetricsResponse is the headline dashboard: totals per status plus
// derived rates. Rates are percentages rounded to two decimals.
type LeadMetricsResponse struct {
	TotalLeads        int     `json:"totalLeads"`
	NewLeads          int     `json:"newLeads"`
	Contacted         int     `json:"contacted"`
	Qualified         int     `json:"qualified"`
	FollowUp          int     `json:"followUp"`
	Scheduled         int     `json:"scheduled"`
	Converted         int     `json:"converted"`
	Lost              int     `json:"lost"`
	Invalid           int     `json:"invalid"`
	ConversionRate    float64 `json:"conversionRate"`
	QualificationRate float64 `json:"qualificationRate"`
	ContactRate       float64 `json:"contactRate"`
	LossRate          float64 `json:"lossRate"`
}

// FunnelStage is one stage of the non-cumulative funnel: the count of leads
// currently sitting at that stage.
type FunnelStage struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FunnelResponse is the status funnel over the window.
type FunnelResponse struct {
	Total  int           `json:"total"`
	Stages []FunnelStage `json:"stages"`
}

// OperatorPerformance is one operator's scoreboard row. AvgResponseTime is
// the mean hours from lead creation to first contact, or "N/A" when the
// operator has no contacted leads.
type OperatorPerformance struct {
	OperatorID             uuid.UUID `json:"operatorId"`
	OperatorName           string    `json:"operatorName"`
	TotalAssigned          int       `json:"totalAssigned"`
	ActiveRequests         int       `json:"activeRequests"`
	Converted              int       `json:"converted"`
	Lost                   int       `json:"lost"`
	ConversionRate         float64   `json:"conversionRate"`
	TotalInteractions      int       `json:"totalInteractions"`
	AvgInteractionsPerLead float64   `json:"avgInteractionsPerLead"`
	AvgResponseTime        string    `json:"avgResponseTime"`
}

// PropertyPerformance is one accommodation's call request outcomes.
type PropertyPerformance struct {
	AccommodationID   uuid.UUID `json:"accommodationId"`
	AccommodationName string    `json:"accommodationName"`
	TotalRequests     int       `json:"totalRequests"`
	Converted         int       `json:"converted"`
	ConversionRate    float64   `json:"conversionRate"`
	TotalValue        float64   `json:"totalValue"`
}

// TrendPoint is one time bucket of the lead volume trend.
type TrendPoint struct {
	Period    string `json:"period"`
	Total     int    `json:"total"`
	Converted int    `json:"converted"`
	Lost      int    `json:"lost"`
}

// LostReason is one aggregated loss reason.
type LostReason struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// DashboardResponse bundles every report section in one payload.
type DashboardResponse struct {
	Metrics     LeadMetricsResponse   `json:"metrics"`
	Funnel      FunnelResponse        `json:"funnel"`
	Operators   []OperatorPerformance `json:"operators"`
	Properties  []PropertyPerformance `json:"properties"`
	Trend       []TrendPoint          `json:"trend"`
	LostReasons []LostReason          `json:"lostReasons"`
}
