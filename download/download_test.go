package download

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dszqbsm/itdashboard/browser"
	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/dszqbsm/itdashboard/dashboard/dashboardtest"
	"github.com/dszqbsm/itdashboard/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordVerifier struct {
	checked []string
}

func (v *recordVerifier) Check(path string, row *dashboard.Investment) bool {
	v.checked = append(v.checked, filepath.Base(path)+"="+row.UII())
	return true
}

func setup(t *testing.T, linked []bool) (*browser.Snapshot, []*dashboard.Investment, string) {
	t.Helper()
	pages := dashboardtest.Write(t, t.TempDir(), dashboardtest.Site{
		Label:  "Total FY2021 Spending:",
		Tiles:  []dashboardtest.Tile{{Name: "Department of Commerce", Spending: "$3.1B", Category: "view"}},
		Agency: "Department of Commerce",
		Table: dashboardtest.Table{
			Headers: []string{"UII", "Investment Title"},
			Rows: [][]string{
				{"006-000001", "Weather Service"},
				{"006-000002", "Decennial Census"},
				{"006-000003", "Patent System"},
			},
			Linked: linked,
		},
	})
	out := t.TempDir()
	b := browser.New(context.Background(), browser.SnapshotType, browser.WithPages(pages), browser.WithDownloadDir(out))
	t.Cleanup(func() { b.Close() })

	s := dashboard.NewScraper(b)
	_, err := s.Agencies(dashboardtest.BaseURL)
	require.NoError(t, err)
	rows, err := s.Investments("Department of Commerce")
	require.NoError(t, err)
	return b.(*browser.Snapshot), rows, out
}

func TestLinksSkipsRowsWithoutLink(t *testing.T) {
	b, rows, out := setup(t, []bool{true, false, true})
	d := New(b, &recordVerifier{}, WithDir(out))

	links, err := d.Links(rows)
	require.NoError(t, err)
	assert.Equal(t, []dashboard.DownloadLink{
		{Href: dashboardtest.DetailURL("006-000001"), Row: 1, UII: "006-000001"},
		{Href: dashboardtest.DetailURL("006-000003"), Row: 3, UII: "006-000003"},
	}, links)
}

func TestDownload(t *testing.T) {
	b, rows, out := setup(t, []bool{true, false, true})
	v := &recordVerifier{}
	d := New(b, v, WithDir(out), WithFileTimeout(time.Second), WithPollInterval(time.Millisecond))

	links, err := d.Links(rows)
	require.NoError(t, err)
	files, err := d.Download(context.Background(), links, rows)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(out, "006-000001.pdf"),
		filepath.Join(out, "006-000003.pdf"),
	}, files)
	assert.Equal(t, files, b.Downloads())
	assert.Equal(t, []string{"006-000001.pdf=006-000001", "006-000003.pdf=006-000003"}, v.checked)
}

func TestDownloadFileTimeout(t *testing.T) {
	b, rows, out := setup(t, []bool{true, false, false})
	v := &recordVerifier{}
	d := New(b, v, WithDir(out), WithFileTimeout(20*time.Millisecond), WithPollInterval(time.Millisecond))

	// the file lands under its own name, not under the UII the table claims
	links := []dashboard.DownloadLink{{Href: dashboardtest.DetailURL("006-000001"), Row: 1, UII: "006-999999"}}
	_, err := d.Download(context.Background(), links, rows)
	assert.ErrorIs(t, err, workspace.ErrTimeout)
	assert.Empty(t, v.checked)
}

func TestDownloadMissingBusinessCase(t *testing.T) {
	b, rows, out := setup(t, []bool{true, false, false})
	d := New(b, &recordVerifier{}, WithDir(out))

	links := []dashboard.DownloadLink{{Href: dashboardtest.BaseURL, Row: 1, UII: "006-000001"}}
	_, err := d.Download(context.Background(), links, rows)
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestDownloadRowOutOfRange(t *testing.T) {
	b, rows, out := setup(t, nil)
	d := New(b, &recordVerifier{}, WithDir(out))

	_, err := d.Download(context.Background(), []dashboard.DownloadLink{{Href: "x", Row: 9}}, rows)
	assert.Error(t, err)
}
