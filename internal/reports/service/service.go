// Package service computes the reporting engine's aggregates: dashboard
// metrics, funnel, operator and property scoreboards, time trends and loss
// reasons.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stayportal_backend/internal/leads/domain"
	"stayportal_backend/internal/reports/repository"
	"stayportal_backend/internal/reports/transport"
	"stayportal_backend/platform/apperr"
)

const propertyLimit = 20

// Repository is the read-side access the reporting service needs.
type Repository interface {
	GetTotals(ctx context.Context, rng repository.Range) (repository.Totals, error)
	GetOperatorPerformance(ctx context.Context, rng repository.Range) ([]repository.OperatorRow, error)
	GetPropertyPerformance(ctx context.Context, rng repository.Range, limit int) ([]repository.PropertyRow, error)
	GetTrendRows(ctx context.Context, rng repository.Range) ([]repository.TrendRow, error)
	GetLostReasons(ctx context.Context, rng repository.Range) ([]repository.LostReasonRow, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseRange(query transport.ReportQuery) (repository.Range, error) {
	var rng repository.Range
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return rng, apperr.Validation("invalid from date")
		}
		rng.From = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return rng, apperr.Validation("invalid to date")
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		rng.To = &end
	}
	if rng.From != nil && rng.To != nil && rng.To.Before(*rng.From) {
		return rng, apperr.Validation("to must not precede from")
	}
	if query.AccommodationID != "" {
		id, err := uuid.Parse(query.AccommodationID)
		if err != nil {
			return rng, apperr.Validation("invalid accommodationId")
		}
		rng.AccommodationID = &id
	}
	if query.OperatorID != "" {
		id, err := uuid.Parse(query.OperatorID)
		if err != nil {
			return rng, apperr.Validation("invalid operatorId")
		}
		rng.OperatorID = &id
	}
	return rng, nil
}

// percent returns part/total as a percentage rounded to two decimals, zero
// when total is zero.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Metrics returns the headline totals and rates over the window.
func (s *Service) Metrics(ctx context.Context, query transport.ReportQuery) (transport.LeadMetricsResponse, error) {
	rng, err := parseRange(query)
	if err != nil {
		return transport.LeadMetricsResponse{}, err
	}
	totals, err := s.repo.GetTotals(ctx, rng)
	if err != nil {
		return transport.LeadMetricsResponse{}, err
	}
	return toMetrics(totals), nil
}

func toMetrics(t repository.Totals) transport.LeadMetricsResponse {
	return transport.LeadMetricsResponse{
		TotalLeads:     t.Total,
		NewLeads:       t.New,
		Contacted:      t.Contacted,
		Qualified:      t.Qualified,
		FollowUp:       t.FollowUp,
		Scheduled:      t.Scheduled,
		Converted:      t.Converted,
		Lost:           t.Lost,
		Invalid:        t.Invalid,
		ConversionRate:    percent(t.Converted, t.Total),
		QualificationRate: percent(t.Qualified, t.Total),
		ContactRate:       percent(t.Total-t.New-t.Invalid, t.Total),
		LossRate:          percent(t.Lost, t.Total),
	}
}

// Funnel returns the per-stage counts. The funnel is not cumulative: each
// stage counts only leads currently sitting at it.
func (s *Service) Funnel(ctx context.Context, query transport.ReportQuery) (transport.FunnelResponse, error) {
	rng, err := parseRange(query)
	if err != nil {
		return transport.FunnelResponse{}, err
	}
	totals, err := s.repo.GetTotals(ctx, rng)
	if err != nil {
		return transport.FunnelResponse{}, err
	}
	return toFunnel(totals), nil
}

func toFunnel(t repository.Totals) transport.FunnelResponse {
	counts := map[domain.Status]int{
		domain.StatusNew:       t.New,
		domain.StatusContacted: t.Contacted,
		domain.StatusQualified: t.Qualified,
		domain.StatusFollowUp:  t.FollowUp,
		domain.StatusScheduled: t.Scheduled,
		domain.StatusConverted: t.Converted,
	}
	resp := transport.FunnelResponse{
		Total:  t.Total,
		Stages: make([]transport.FunnelStage, 0, len(domain.FunnelStages)),
	}
	for _, stage := range domain.FunnelStages {
		resp.Stages = append(resp.Stages, transport.FunnelStage{
			Stage:      string(stage),
			Count:      counts[stage],
			Percentage: percent(counts[stage], t.Total),
		})
	}
	return resp
}

// OperatorPerformance returns the operator scoreboard, busiest first.
func (s *Service) OperatorPerformance(ctx context.Context, query transport.ReportQuery) ([]transport.OperatorPerformance, error) {
	rng, err := parseRange(query)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetOperatorPerformance(ctx, rng)
	if err != nil {
		return nil, err
	}
	return toOperatorPerformance(rows), nil
}

func toOperatorPerformance(rows []repository.OperatorRow) []transport.OperatorPerformance {
	items := make([]transport.OperatorPerformance, 0, len(rows))
	for _, row := range rows {
		item := transport.OperatorPerformance{
			OperatorID:        row.OperatorID,
			OperatorName:      row.OperatorName,
			TotalAssigned:     row.TotalAssigned,
			ActiveRequests:    row.Active,
			Converted:         row.Converted,
			Lost:              row.Lost,
			ConversionRate:    percent(row.Converted, row.TotalAssigned),
			TotalInteractions: row.TotalInteractions,
			AvgResponseTime:   "N/A",
		}
		if row.TotalAssigned > 0 {
			item.AvgInteractionsPerLead = round2(float64(row.TotalInteractions) / float64(row.TotalAssigned))
		}
		if len(row.ResponseHours) > 0 {
			var sum float64
			for _, h := range row.ResponseHours {
				sum += h
			}
			item.AvgResponseTime = fmt.Sprintf("%.1f hours", sum/float64(len(row.ResponseHours)))
		}
		items = append(items, item)
	}
	return items
}

// PropertyPerformance returns the top accommodations by request volume.
func (s *Service) PropertyPerformance(ctx context.Context, query transport.ReportQuery) ([]transport.PropertyPerformance, error) {
	rng, err := parseRange(query)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetPropertyPerformance(ctx, rng, propertyLimit)
	if err != nil {
		return nil, err
	}
	return toPropertyPerformance(rows), nil
}

func toPropertyPerformance(rows []repository.PropertyRow) []transport.PropertyPerformance {
	items := make([]transport.PropertyPerformance, 0, len(rows))
	for _, row := range rows {
		items = append(items, transport.PropertyPerformance{
			AccommodationID:   row.AccommodationID,
			AccommodationName: row.AccommodationName,
			TotalRequests:     row.Total,
			Converted:         row.Converted,
			ConversionRate:    percent(row.Converted, row.Total),
			TotalValue:        row.TotalValue,
		})
	}
	return items
}

// Trend returns lead volume bucketed by day, week or month of creation.
// Weeks start on Sunday. Buckets with no leads are omitted.
func (s *Service) Trend(ctx context.Context, query transport.ReportQuery) ([]transport.TrendPoint, error) {
	rng, err := parseRange(query)
	if err != nil {
		return nil, err
	}
	groupBy := query.GroupBy
	if groupBy == "" {
		groupBy = "day"
	}
	rows, err := s.repo.GetTrendRows(ctx, rng)
	if err != nil {
		return nil, err
	}
	return bucketTrend(rows, groupBy), nil
}

func bucketKey(t time.Time, groupBy string) string {
	switch groupBy {
	case "week":
		// Weeks start on Sunday.
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format("2006-01-02")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func bucketTrend(rows []repository.TrendRow, groupBy string) []transport.TrendPoint {
	buckets := make(map[string]*transport.TrendPoint)
	for _, row := range rows {
		key := bucketKey(row.CreatedAt, groupBy)
		point, ok := buckets[key]
		if !ok {
			point = &transport.TrendPoint{Period: key}
			buckets[key] = point
		}
		point.Total++
		switch domain.Status(row.Status) {
		case domain.StatusConverted:
			point.Converted++
		case domain.StatusLost:
			point.Lost++
		}
	}

	points := make([]transport.TrendPoint, 0, len(buckets))
	for _, point := range buckets {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

// LostReasons aggregates why leads were lost, most common first. Lost leads
// without a recorded reason count under "Not specified".
func (s *Service) LostReasons(ctx context.Context, query transport.ReportQuery) ([]transport.LostReason, error) {
	rng, err := parseRange(query)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetLostReasons(ctx, rng)
	if err != nil {
		return nil, err
	}
	return aggregateLostReasons(rows), nil
}

func aggregateLostReasons(rows []repository.LostReasonRow) []transport.LostReason {
	counts := make(map[string]int)
	for _, row := range rows {
		reason := "Not specified"
		if row.Reason != nil && *row.Reason != "" {
			reason = *row.Reason
		}
		counts[reason]++
	}

	reasons := make([]transport.LostReason, 0, len(counts))
	for reason, count := range counts {
		reasons = append(reasons, transport.LostReason{Reason: reason, Count: count})
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].Count != reasons[j].Count {
			return reasons[i].Count > reasons[j].Count
		}
		return reasons[i].Reason < reasons[j].Reason
	})
	return reasons
}

// Dashboard assembles every report section concurrently.
func (s *Service) Dashboard(ctx context.Context, query transport.ReportQuery) (transport.DashboardResponse, error) {
	rng, err := parseRange(query)
	if err != nil {
		return transport.DashboardResponse{}, err
	}
	groupBy := query.GroupBy
	if groupBy == "" {
		groupBy = "day"
	}

	var (
		totals    repository.Totals
		operators []repository.OperatorRow
		props     []repository.PropertyRow
		trend     []repository.TrendRow
		lost      []repository.LostReasonRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.GetTotals(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		operators, err = s.repo.GetOperatorPerformance(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		props, err = s.repo.GetPropertyPerformance(gctx, rng, propertyLimit)
		return err
	})
	g.Go(func() error {
		var err error
		trend, err = s.repo.GetTrendRows(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		lost, err = s.repo.GetLostReasons(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DashboardResponse{}, err
	}

	return transport.DashboardResponse{
		Metrics:     toMetrics(totals),
		Funnel:      toFunnel(totals),
		Operators:   toOperatorPerformance(operators),
		Properties:  toPropertyPerformance(props),
		Trend:       bucketTrend(trend, groupBy),
		LostReasons: aggregateLostReasons(lost),
	}, nil
}
