// Package dashboardtest writes a miniature copy of the dashboard pages to disk
// for the snapshot browser.
package dashboardtest

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const BaseURL = "https://itdashboard.gov/"

type Tile struct {
	Name     string
	Spending string
	Category string
}

type Table struct {
	Headers []string
	Rows    [][]string // first cell of each row is the UII
	Linked  []bool     // rows whose first cell links to a detail page
}

type Site struct {
	Label  string // e.g. "Total FY2021 Spending:"
	Tiles  []Tile
	Agency string // tile whose page carries Table
	Table  Table
}

// AgencyURL is the page of the i-th tile.
func AgencyURL(i int) string {
	return fmt.Sprintf("%sdrupal/summary/%03d", BaseURL, i)
}

func DetailURL(uii string) string {
	return fmt.Sprintf("%sdrupal/summary/investment/%s", BaseURL, uii)
}

func PDFURL(uii string) string {
	return fmt.Sprintf("%sapi/v1/businesscase/pdf/%s.pdf", BaseURL, uii)
}

// Write renders site into dir and returns the url -> file map.
func Write(t testing.TB, dir string, site Site) map[string]string {
	t.Helper()
	pages := make(map[string]string)
	put := func(url, name, body string) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		pages[url] = path
	}

	put(BaseURL, "landing.html", landing())
	put(BaseURL+"drupal/summary", "tiles.html", tiles(site))
	for i, tile := range site.Tiles {
		body := "<html><body><p>no investments</p></body></html>"
		if tile.Name == site.Agency {
			body = agency(site.Table)
		}
		put(AgencyURL(i), fmt.Sprintf("agency-%03d.html", i), body)
	}
	for i, row := range site.Table.Rows {
		if i >= len(site.Table.Linked) || !site.Table.Linked[i] || len(row) == 0 {
			continue
		}
		uii := row[0]
		put(DetailURL(uii), "detail-"+uii+".html", detail(uii))
		put(PDFURL(uii), "source-"+uii+".pdf", "%PDF-1.4\n% "+uii+"\n")
	}
	return pages
}

func landing() string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="node-23">`)
	b.WriteString(strings.Repeat("<div>", 7))
	b.WriteString(`<a href="/drupal/summary">DIVE IN</a>`)
	b.WriteString(strings.Repeat("</div>", 7))
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func tiles(site Site) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="agency-tiles-widget"><div class="row">`)
	for i, tile := range site.Tiles {
		fmt.Fprintf(&b, `<div class="tile"><a href="/drupal/summary/%03d"><span class="h4">%s</span>`+
			`<span>%s</span><span class="h1">%s</span><span>%s</span></a></div>`,
			i, html.EscapeString(tile.Name), html.EscapeString(site.Label),
			html.EscapeString(tile.Spending), html.EscapeString(tile.Category))
	}
	b.WriteString(`</div><div class="legend">footer</div></div></body></html>`)
	return b.String()
}

func agency(t Table) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	b.WriteString(`<div id="investments-table-object_length"><label>Show <select>` +
		`<option>10</option><option>25</option><option>100</option><option>All</option>` +
		`</select> entries</label></div>`)
	b.WriteString(`<div id="investments-table-object_wrapper"><div>top</div><div>info</div><div>`)
	b.WriteString(`<div><div><table><thead><tr><th colspan="9">Investments</th></tr><tr>`)
	for _, h := range t.Headers {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
	}
	b.WriteString(`</tr></thead></table></div></div>`)
	b.WriteString(`<div><div><table id="investments-table-object"><tbody>`)
	for i, row := range t.Rows {
		b.WriteString("<tr>")
		for j, cell := range row {
			text := html.EscapeString(cell)
			if j == 0 && i < len(t.Linked) && t.Linked[i] {
				text = fmt.Sprintf(`<a href="/drupal/summary/investment/%s">%s</a>`, text, text)
			}
			fmt.Fprintf(&b, "<td>%s</td>", text)
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</tbody></table></div></div></div></div>`)
	b.WriteString(`<div id="investments-table-object_paginate"><span><a>1</a></span></div>`)
	b.WriteString(`</body></html>`)
	return b.String()
}

func detail(uii string) string {
	return fmt.Sprintf(`<html><body><h1>%s</h1><div id="business-case-pdf">`+
		`<a href="/api/v1/businesscase/pdf/%s.pdf">Download Business Case PDF</a></div></body></html>`, uii, uii)
}
