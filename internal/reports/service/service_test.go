package service

import (
	"context"
	"testing"
	"time"

	"stayportal_backend/internal/reports/repository"
	"stayportal_backend/internal/reports/transport"
	"stayportal_backend/platform/apperr"
)

type fakeRepo struct {
	totals repository.Totals
	trend  []repository.TrendRow
	lost   []repository.LostReasonRow
}

func (f *fakeRepo) GetTotals(context.Context, repository.Range) (repository.Totals, error) {
	return f.totals, nil
}

func (f *fakeRepo) GetOperatorPerformance(context.Context, repository.Range) ([]repository.OperatorRow, error) {
	return nil, nil
}

func (f *fakeRepo) GetPropertyPerformance(context.Context, repository.Range, int) ([]repository.PropertyRow, error) {
	return nil, nil
}

func (f *fakeRepo) GetTrendRows(context.Context, repository.Range) ([]repository.TrendRow, error) {
	return f.trend, nil
}

func (f *fakeRepo) GetLostReasons(context.Context, repository.Range) ([]repository.LostReasonRow, error) {
	return f.lost, nil
}

func TestMetricsRatesArePercentages(t *testing.T) {
	svc := New(&fakeRepo{totals: repository.Totals{Total: 1, Converted: 1}})

	metrics, err := svc.Metrics(context.Background(), transport.ReportQuery{})
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if metrics.ConversionRate != 100 {
		t.Errorf("conversionRate = %v, want 100", metrics.ConversionRate)
	}
}

func TestMetricsEmptyWindow(t *testing.T) {
	svc := New(&fakeRepo{})

	metrics, err := svc.Metrics(context.Background(), transport.ReportQuery{})
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if metrics.ConversionRate != 0 || metrics.ContactRate != 0 || metrics.LossRate != 0 {
		t.Errorf("rates = %v/%v/%v, want all 0", metrics.ConversionRate, metrics.ContactRate, metrics.LossRate)
	}
}

func TestMetricsRounding(t *testing.T) {
	svc := New(&fakeRepo{totals: repository.Totals{Total: 3, Converted: 1, Qualified: 2}})

	metrics, err := svc.Metrics(context.Background(), transport.ReportQuery{})
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if metrics.ConversionRate != 33.33 {
		t.Errorf("conversionRate = %v, want 33.33", metrics.ConversionRate)
	}
	if metrics.QualificationRate != 66.67 {
		t.Errorf("qualificationRate = %v, want 66.67", metrics.QualificationRate)
	}
}

func TestFunnelIsNotCumulative(t *testing.T) {
	svc := New(&fakeRepo{totals: repository.Totals{
		Total: 10, New: 4, Contacted: 3, Converted: 2, Lost: 1,
	}})

	funnel, err := svc.Funnel(context.Background(), transport.ReportQuery{})
	if err != nil {
		t.Fatalf("Funnel() error = %v", err)
	}
	if len(funnel.Stages) != 6 {
		t.Fatalf("stages = %d, want 6", len(funnel.Stages))
	}
	// CONTACTED counts only leads currently at CONTACTED, not everyone who
	// passed through it.
	if funnel.Stages[1].Stage != "CONTACTED" || funnel.Stages[1].Count != 3 {
		t.Errorf("stage[1] = %+v", funnel.Stages[1])
	}
	if funnel.Stages[5].Stage != "CONVERTED" || funnel.Stages[5].Count != 2 {
		t.Errorf("stage[5] = %+v", funnel.Stages[5])
	}
}

func TestOperatorResponseTime(t *testing.T) {
	rows := []repository.OperatorRow{
		{OperatorName: "Ravi", TotalAssigned: 4, Active: 2, Converted: 1, TotalInteractions: 9, ResponseHours: []float64{2, 4}},
		{OperatorName: "Meena", TotalAssigned: 2},
	}

	items := toOperatorPerformance(rows)
	if items[0].AvgResponseTime != "3.0 hours" {
		t.Errorf("avgResponseTime = %q, want \"3.0 hours\"", items[0].AvgResponseTime)
	}
	if items[0].ConversionRate != 25 {
		t.Errorf("conversionRate = %v, want 25", items[0].ConversionRate)
	}
	if items[0].ActiveRequests != 2 {
		t.Errorf("activeRequests = %d, want 2", items[0].ActiveRequests)
	}
	if items[0].TotalInteractions != 9 {
		t.Errorf("totalInteractions = %d, want 9", items[0].TotalInteractions)
	}
	if items[0].AvgInteractionsPerLead != 2.25 {
		t.Errorf("avgInteractionsPerLead = %v, want 2.25", items[0].AvgInteractionsPerLead)
	}
	if items[1].AvgResponseTime != "N/A" {
		t.Errorf("avgResponseTime = %q, want N/A", items[1].AvgResponseTime)
	}
}

func TestOperatorWithNoLeadsReportsZeroes(t *testing.T) {
	rows := []repository.OperatorRow{
		{OperatorName: "Arjun"},
	}

	items := toOperatorPerformance(rows)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	got := items[0]
	if got.TotalAssigned != 0 || got.ActiveRequests != 0 || got.TotalInteractions != 0 {
		t.Errorf("counts = %d/%d/%d, want all 0", got.TotalAssigned, got.ActiveRequests, got.TotalInteractions)
	}
	if got.ConversionRate != 0 || got.AvgInteractionsPerLead != 0 {
		t.Errorf("rates = %v/%v, want 0", got.ConversionRate, got.AvgInteractionsPerLead)
	}
	if got.AvgResponseTime != "N/A" {
		t.Errorf("avgResponseTime = %q, want N/A", got.AvgResponseTime)
	}
}

func TestTrendBuckets(t *testing.T) {
	day := func(d int, status string) repository.TrendRow {
		return repository.TrendRow{
			CreatedAt: time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC),
			Status:    status,
		}
	}
	// March 2026: the 1st is a Sunday.
	rows := []repository.TrendRow{
		day(2, "NEW"),
		day(3, "CONVERTED"),
		day(9, "LOST"),
		day(10, "NEW"),
	}

	t.Run("day", func(t *testing.T) {
		points := bucketTrend(rows, "day")
		if len(points) != 4 {
			t.Fatalf("points = %d, want 4", len(points))
		}
		if points[0].Period != "2026-03-02" || points[0].Total != 1 {
			t.Errorf("points[0] = %+v", points[0])
		}
		if points[1].Converted != 1 {
			t.Errorf("points[1] = %+v", points[1])
		}
	})

	t.Run("week starts sunday", func(t *testing.T) {
		points := bucketTrend(rows, "week")
		if len(points) != 2 {
			t.Fatalf("points = %d, want 2", len(points))
		}
		if points[0].Period != "2026-03-01" || points[0].Total != 2 || points[0].Converted != 1 {
			t.Errorf("points[0] = %+v", points[0])
		}
		if points[1].Period != "2026-03-08" || points[1].Lost != 1 {
			t.Errorf("points[1] = %+v", points[1])
		}
	})

	t.Run("month", func(t *testing.T) {
		points := bucketTrend(rows, "month")
		if len(points) != 1 || points[0].Period != "2026-03" || points[0].Total != 4 {
			t.Errorf("points = %+v", points)
		}
	})
}

func TestLostReasons(t *testing.T) {
	priceTooHigh := "Price too high"
	empty := ""
	rows := []repository.LostReasonRow{
		{Reason: &priceTooHigh},
		{Reason: &priceTooHigh},
		{Reason: nil},
		{Reason: &empty},
	}

	reasons := aggregateLostReasons(rows)
	if len(reasons) != 2 {
		t.Fatalf("reasons = %d, want 2", len(reasons))
	}
	if reasons[0].Reason != "Not specified" && reasons[0].Reason != "Price too high" {
		t.Errorf("reasons[0] = %+v", reasons[0])
	}
	// Both count 2; alphabetical tie-break puts "Not specified" first.
	if reasons[0].Reason != "Not specified" || reasons[0].Count != 2 {
		t.Errorf("reasons[0] = %+v", reasons[0])
	}
	if reasons[1].Reason != "Price too high" || reasons[1].Count != 2 {
		t.Errorf("reasons[1] = %+v", reasons[1])
	}
}

func TestInvalidRangeRejected(t *testing.T) {
	svc := New(&fakeRepo{})

	_, err := svc.Metrics(context.Background(), transport.ReportQuery{From: "2026-05-01", To: "2026-04-01"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestDashboardAssemblesAllSections(t *testing.T) {
	svc := New(&fakeRepo{
		totals: repository.Totals{Total: 2, Converted: 1, New: 1},
		trend: []repository.TrendRow{
			{CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Status: "CONVERTED"},
		},
		lost: nil,
	})

	dash, err := svc.Dashboard(context.Background(), transport.ReportQuery{})
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dash.Metrics.ConversionRate != 50 {
		t.Errorf("conversionRate = %v, want 50", dash.Metrics.ConversionRate)
	}
	if len(dash.Funnel.Stages) != 6 {
		t.Errorf("funnel stages = %d, want 6", len(dash.Funnel.Stages))
	}
	if len(dash.Trend) != 1 {
		t.Errorf("trend points = %d, want 1", len(dash.Trend))
	}
}
