package apiclient

import (
	"context"

	"esgboard/internal/dto"
)

func (c *Client) CompanyInfo(ctx context.Context) (dto.CompanyInfo, error) {
	var out dto.CompanyInfo
	err := c.Get(ctx, "/webapp/user/get-all-company-infor", nil, &out)
	return out, err
}

// UpdateCompanyInfo replaces the overall info, sites and products.
func (c *Client) UpdateCompanyInfo(ctx context.Context, info dto.CompanyInfo) (dto.CompanyInfo, error) {
	var out dto.CompanyInfo
	err := c.Post(ctx, "/webapp/user/update-company-infor", nil, info, &out)
	return out, err
}
