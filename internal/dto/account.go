package dto

import "time"

type Credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResult struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         Profile `json:"user"`
}

type Profile struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OverallInfo struct {
	ID                 uint   `json:"id,omitempty"`
	CompanyName        string `json:"companyName"`
	DateFounder        int    `json:"dateFounder,omitempty"`
	MainAddress        string `json:"mainAddress,omitempty"`
	MainPhoneNumber    string `json:"mainPhoneNumber,omitempty"`
	CompanyWebsite     string `json:"companyWebsite,omitempty"`
	CompanySector      string `json:"companySector,omitempty"`
	CompanyDescription string `json:"companyDescription,omitempty"`
	ContactInformation string `json:"contactInformation,omitempty"`
}

type SiteInfo struct {
	ID              uint   `json:"id,omitempty"`
	SiteName        string `json:"siteName"`
	NumberEmployees int    `json:"numberEmployees"`
	Comment         string `json:"comment,omitempty"`
}

type ProductInfo struct {
	ID          uint    `json:"id,omitempty"`
	ProductName string  `json:"productName"`
	Revenue     float64 `json:"revenue"`
	Comment     string  `json:"comment,omitempty"`
}

type CompanyInfo struct {
	OverallInfor  OverallInfo   `json:"overallInfor"`
	SiteInfors    []SiteInfo    `json:"siteInfors"`
	ProductInfors []ProductInfo `json:"productInfors"`
}
