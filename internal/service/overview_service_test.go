package service

import (
	"testing"

	"github.com/shelfsense/backend/internal/domain"
)

func overviewTestItems() []domain.OverviewItem {
	return []domain.OverviewItem{
		{SKUID: 1, RiskLevel: domain.RiskCritical, ConfidenceScore: 95},
		{SKUID: 2, RiskLevel: domain.RiskHigh, ConfidenceScore: 80},
		{SKUID: 3, RiskLevel: domain.RiskLow, ConfidenceScore: 90},
		{SKUID: 4, RiskLevel: domain.RiskMedium, ConfidenceScore: 55},
		{SKUID: 5, RiskLevel: domain.RiskLow, ConfidenceScore: 70},
	}
}

func TestApplyOverviewFilterPaging(t *testing.T) {
	items := overviewTestItems()

	page := applyOverviewFilter(items, domain.OverviewFilter{Limit: 2})
	if len(page) != 2 || page[0].SKUID != 1 || page[1].SKUID != 2 {
		t.Fatalf("first page = %+v, want SKUs 1 and 2", page)
	}

	page = applyOverviewFilter(items, domain.OverviewFilter{Limit: 2, Offset: 2})
	if len(page) != 2 || page[0].SKUID != 3 || page[1].SKUID != 4 {
		t.Fatalf("second page = %+v, want SKUs 3 and 4", page)
	}

	page = applyOverviewFilter(items, domain.OverviewFilter{Limit: 2, Offset: 4})
	if len(page) != 1 || page[0].SKUID != 5 {
		t.Fatalf("last page = %+v, want SKU 5 only", page)
	}

	if page = applyOverviewFilter(items, domain.OverviewFilter{Limit: 2, Offset: 10}); len(page) != 0 {
		t.Fatalf("offset past the end returned %+v, want empty", page)
	}
}

func TestApplyOverviewFilterOffsetCountsMatches(t *testing.T) {
	items := overviewTestItems()

	// Low-risk rows are filtered out before the page window is taken, so
	// offset 2 lands on the third at-risk item, not the third raw row.
	page := applyOverviewFilter(items, domain.OverviewFilter{RiskOnly: true, Limit: 2, Offset: 2})
	if len(page) != 1 || page[0].SKUID != 4 {
		t.Fatalf("page = %+v, want SKU 4 only", page)
	}
}
