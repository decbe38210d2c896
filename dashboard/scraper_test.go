package dashboard

import (
	"context"
	"strings"
	"testing"

	"github.com/dszqbsm/itdashboard/browser"
	"github.com/dszqbsm/itdashboard/dashboard/dashboardtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const label = "Total FY2021 Spending:"

func TestParseAgencyTiles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []AgencySummary
	}{
		{name: "empty", text: "", want: nil},
		{name: "blank", text: " \n", want: nil},
		{
			name: "three tiles",
			text: strings.Join([]string{
				"Department of Agriculture", label, "$2.8B", "view",
				"Department of Commerce", label, "$3.1B", "view",
				"Department of Defense", label, "$37.1B", "view",
			}, "\n"),
			want: []AgencySummary{
				{Name: "Department of Agriculture", TotalSpending: "$2.8B"},
				{Name: "Department of Commerce", TotalSpending: "$3.1B"},
				{Name: "Department of Defense", TotalSpending: "$37.1B"},
			},
		},
		{
			name: "without labels",
			text: "A\n$1\nx\nB\n$2\ny",
			want: []AgencySummary{{Name: "A", TotalSpending: "$1"}, {Name: "B", TotalSpending: "$2"}},
		},
		{
			name: "trailing name only",
			text: "A\n$1\nx\nB",
			want: []AgencySummary{{Name: "A", TotalSpending: "$1"}, {Name: "B"}},
		},
		{
			name: "other fiscal year label is kept",
			text: "A\nTotal FY2020 Spending:\n$1\nx",
			want: []AgencySummary{{Name: "A", TotalSpending: "Total FY2020 Spending:"}, {Name: "x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAgencyTiles(tt.text, label))
		})
	}
}

func TestParseAgencyTilesKeepsCount(t *testing.T) {
	for n := 1; n <= 20; n++ {
		var lines []string
		for i := 0; i < n; i++ {
			lines = append(lines, "agency", label, "$1", "category")
		}
		got := ParseAgencyTiles(strings.Join(lines, "\n"), label)
		require.Len(t, got, n)
		for _, a := range got {
			assert.Equal(t, AgencySummary{Name: "agency", TotalSpending: "$1"}, a)
		}
	}
}

func newSite(t *testing.T, table dashboardtest.Table) browser.Browser {
	t.Helper()
	pages := dashboardtest.Write(t, t.TempDir(), dashboardtest.Site{
		Label: label,
		Tiles: []dashboardtest.Tile{
			{Name: "Department of Agriculture", Spending: "$2.8B", Category: "view"},
			{Name: "Department of Commerce", Spending: "$3.1B", Category: "view"},
		},
		Agency: "Department of Commerce",
		Table:  table,
	})
	b := browser.New(context.Background(), browser.SnapshotType, browser.WithPages(pages))
	t.Cleanup(func() { b.Close() })
	return b
}

func TestScraperAgencies(t *testing.T) {
	b := newSite(t, dashboardtest.Table{})
	s := NewScraper(b, WithSpendingLabel(label))

	got, err := s.Agencies(dashboardtest.BaseURL)
	require.NoError(t, err)
	assert.Equal(t, []AgencySummary{
		{Name: "Department of Agriculture", TotalSpending: "$2.8B"},
		{Name: "Department of Commerce", TotalSpending: "$3.1B"},
	}, got)
}

func TestScraperInvestments(t *testing.T) {
	b := newSite(t, dashboardtest.Table{
		Headers: []string{"UII", "Bureau", "Investment Title"},
		Rows: [][]string{
			{"006-000001", "NOAA", "Weather Service"},
			{"006-000002", "Census", "Decennial Census"},
		},
		Linked: []bool{true, false},
	})
	s := NewScraper(b)
	_, err := s.Agencies(dashboardtest.BaseURL)
	require.NoError(t, err)

	rows, err := s.Investments("Department of Commerce")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, []string{"UII", "Bureau", "Investment Title"}, r.Keys())
	}
	assert.Equal(t, "006-000001", rows[0].UII())
	assert.Equal(t, "Weather Service", rows[0].Title())
	assert.Equal(t, "Census", rows[1].Get("Bureau"))
	assert.Equal(t, "Decennial Census", rows[1].Title())
}

func TestScraperInvestmentsDuplicateHeader(t *testing.T) {
	b := newSite(t, dashboardtest.Table{
		Headers: []string{"UII", "Score", "Investment Title", "Score"},
		Rows:    [][]string{{"006-000001", "1", "Weather Service", "5"}},
	})
	s := NewScraper(b)
	_, err := s.Agencies(dashboardtest.BaseURL)
	require.NoError(t, err)

	rows, err := s.Investments("Department of Commerce")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"UII", "Score", "Investment Title"}, rows[0].Keys())
	assert.Equal(t, "5", rows[0].Get("Score"))
}

func TestScraperInvestmentsUnknownAgency(t *testing.T) {
	b := newSite(t, dashboardtest.Table{})
	s := NewScraper(b)
	_, err := s.Agencies(dashboardtest.BaseURL)
	require.NoError(t, err)

	_, err = s.Investments("Department of Magic")
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestScraperInvestmentsNoTable(t *testing.T) {
	b := newSite(t, dashboardtest.Table{})
	s := NewScraper(b)
	_, err := s.Agencies(dashboardtest.BaseURL)
	require.NoError(t, err)

	_, err = s.Investments("Department of Agriculture")
	assert.ErrorIs(t, err, browser.ErrTimeout)
}
