package models

import "github.com/bizledger/backend/internal/domain/partner"

// CustomerModel is the persistence model of a customer
type CustomerModel struct {
	CompanyModel
	Name            string `gorm:"type:varchar(200);not null"`
	Email           string `gorm:"type:varchar(200);index"`
	Phone           string `gorm:"type:varchar(50)"`
	CompanyName     string `gorm:"type:varchar(200)"`
	BillingAddress  string `gorm:"type:text"`
	ShippingAddress string `gorm:"type:text"`
	Notes           string `gorm:"type:text"`
	IsActive        bool   `gorm:"not null;index"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		CompanyAggregateRoot: m.companyRoot(),
		Name:                 m.Name,
		Email:                m.Email,
		Phone:                m.Phone,
		CompanyName:          m.CompanyName,
		BillingAddress:       m.BillingAddress,
		ShippingAddress:      m.ShippingAddress,
		Notes:                m.Notes,
		Active:               m.IsActive,
	}
}

// CustomerModelFromDomain converts a customer to its model
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		CompanyName:     c.CompanyName,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		Notes:           c.Notes,
		IsActive:        c.Active,
	}
	m.fromCompanyRoot(c.CompanyAggregateRoot)
	return m
}
