package dashboard

import "fmt"

// XPath locators tied to the itdashboard.gov markup.
const (
	DiveInLink        = `//*[@id="node-23"]/div/div/div/div/div/div/div/a`
	AgencyTiles       = `//*[@id="agency-tiles-widget"]/div`
	AgencyTilesText   = `//*[@id="agency-tiles-widget"]/div[1]`
	LengthSelect      = `//*[@id="investments-table-object_length"]/label/select`
	PaginateNext      = `//*[@id="investments-table-object_paginate"]/span/a[2]`
	InvestmentRows    = `//*[@id="investments-table-object"]/tbody/tr`
	BusinessCaseLink  = `//*[@id="business-case-pdf"]/a`
	investmentHeaders = `//*[@id="investments-table-object_wrapper"]/div[3]/div[1]/div/table/thead/tr[2]/th`

	// LengthAllOption is the "show all" entry of the page length selector.
	LengthAllOption = 4
)

func FirstRowCells() string {
	return InvestmentRows + "[1]/td"
}

func HeaderCell(col int) string {
	return fmt.Sprintf("%s[%d]", investmentHeaders, col)
}

func Cell(row, col int) string {
	return fmt.Sprintf("%s[%d]/td[%d]", InvestmentRows, row, col)
}

// RowLink is the detail anchor in the first cell of a row.
func RowLink(row int) string {
	return fmt.Sprintf("%s[%d]/td[1]/a", InvestmentRows, row)
}
