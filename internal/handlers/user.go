package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esgboard/internal/dto"
	"esgboard/internal/models"
	"esgboard/internal/repository"
)

// UserHandler serves the company information of the signed-in account.
type UserHandler struct {
	log  *zap.Logger
	repo *repository.Repository
}

func NewUserHandler(log *zap.Logger, repo *repository.Repository) *UserHandler {
	return &UserHandler{log: log, repo: repo}
}

func (h *UserHandler) CompanyInfo(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	rec, err := h.repo.GetCompany(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to load company", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	success(c, companyInfoOf(rec))
}

func (h *UserHandler) UpdateCompanyInfo(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var info dto.CompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		fail(c, http.StatusBadRequest, "msg.badRequest")
		return
	}
	if strings.TrimSpace(info.OverallInfor.CompanyName) == "" {
		fail(c, http.StatusBadRequest, "msg.badRequest")
		return
	}

	rec := companyRecordOf(info)
	if err := h.repo.ReplaceCompany(c.Request.Context(), user.ID, rec); err != nil {
		h.log.Error("Failed to update company", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	h.log.Info("Company information updated", zap.Uint("userID", user.ID))
	respond(c, http.StatusOK, companyInfoOf(rec), tr(c, "msg.companyUpdated"))
}

func companyInfoOf(rec *repository.CompanyRecord) dto.CompanyInfo {
	co := rec.Company
	info := dto.CompanyInfo{
		OverallInfor: dto.OverallInfo{
			ID:                 co.ID,
			CompanyName:        co.CompanyName,
			DateFounder:        co.DateFounder,
			MainAddress:        co.MainAddress,
			MainPhoneNumber:    co.MainPhoneNumber,
			CompanyWebsite:     co.CompanyWebsite,
			CompanySector:      co.CompanySector,
			CompanyDescription: co.CompanyDescription,
			ContactInformation: co.ContactInformation,
		},
		SiteInfors:    make([]dto.SiteInfo, 0, len(rec.Sites)),
		ProductInfors: make([]dto.ProductInfo, 0, len(rec.Products)),
	}
	for _, s := range rec.Sites {
		info.SiteInfors = append(info.SiteInfors, dto.SiteInfo{
			ID: s.ID, SiteName: s.SiteName, NumberEmployees: s.NumberEmployees, Comment: s.Comment,
		})
	}
	for _, p := range rec.Products {
		info.ProductInfors = append(info.ProductInfors, dto.ProductInfo{
			ID: p.ID, ProductName: p.ProductName, Revenue: p.Revenue, Comment: p.Comment,
		})
	}
	return info
}

func companyRecordOf(info dto.CompanyInfo) *repository.CompanyRecord {
	o := info.OverallInfor
	rec := &repository.CompanyRecord{
		Company: models.Company{
			CompanyName:        strings.TrimSpace(o.CompanyName),
			DateFounder:        o.DateFounder,
			MainAddress:        o.MainAddress,
			MainPhoneNumber:    o.MainPhoneNumber,
			CompanyWebsite:     o.CompanyWebsite,
			CompanySector:      o.CompanySector,
			CompanyDescription: o.CompanyDescription,
			ContactInformation: o.ContactInformation,
		},
	}
	for _, s := range info.SiteInfors {
		rec.Sites = append(rec.Sites, models.Site{SiteName: s.SiteName, NumberEmployees: s.NumberEmployees, Comment: s.Comment})
	}
	for _, p := range info.ProductInfors {
		rec.Products = append(rec.Products, models.Product{ProductName: p.ProductName, Revenue: p.Revenue, Comment: p.Comment})
	}
	return rec
}
