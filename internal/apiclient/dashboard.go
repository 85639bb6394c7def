package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
)

func (c *Client) Dashboard(ctx context.Context) (dto.Dashboard, error) {
	var out dto.Dashboard
	err := c.Get(ctx, "/webapp/dashboard/get-all-data", nil, &out)
	return out, err
}

// Chart fetches one pillar chart, e.g. Chart(ctx, "environment", "water", lang).
func (c *Client) Chart(ctx context.Context, pillar, key string, lang i18n.Lang) (dto.Chart, error) {
	var out dto.Chart
	err := c.Get(ctx, fmt.Sprintf("/webapp/%s/chart-%s", pillar, key), url.Values{"lang": {string(lang)}}, &out)
	return out, err
}

func (c *Client) Report(ctx context.Context, year int, lang i18n.Lang) (dto.Report, error) {
	var out dto.Report
	q := url.Values{"year": {strconv.Itoa(year)}, "lang": {string(lang)}}
	err := c.Get(ctx, "/webapp/report/get-all-data", q, &out)
	return out, err
}

// ExportReport writes the year's XLSX report to w.
func (c *Client) ExportReport(ctx context.Context, year int, lang i18n.Lang, w io.Writer) error {
	q := url.Values{"year": {strconv.Itoa(year)}, "lang": {string(lang)}}
	return c.Download(ctx, "/webapp/report/export", q, w)
}
