package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/identity"
)

// CompanyRecord is the persistence model of a company (the tenant).
type CompanyRecord struct {
	AggregateModel
	Name             string `gorm:"type:varchar(200);not null"`
	Email            string `gorm:"type:varchar(200)"`
	Phone            string `gorm:"type:varchar(50)"`
	Address          string `gorm:"type:text"`
	Currency         string `gorm:"type:varchar(3);not null;default:'USD'"`
	TaxID            string `gorm:"type:varchar(50)"`
	InvoicePrefix    string `gorm:"type:varchar(10);not null;default:'INV-'"`
	ReceiptPrefix    string `gorm:"type:varchar(10);not null;default:'REC-'"`
	PaymentTermsDays int    `gorm:"not null;default:30"`
	IsActive         bool   `gorm:"not null"`
}

func (CompanyRecord) TableName() string {
	return "companies"
}

// ToDomain converts the record to a company
func (m *CompanyRecord) ToDomain() *company.Company {
	return &company.Company{
		BaseAggregateRoot: m.aggregate(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		Currency:          m.Currency,
		TaxID:             m.TaxID,
		InvoicePrefix:     m.InvoicePrefix,
		ReceiptPrefix:     m.ReceiptPrefix,
		PaymentTermsDays:  m.PaymentTermsDays,
		Active:            m.IsActive,
	}
}

// CompanyRecordFromDomain converts a company to its record
func CompanyRecordFromDomain(c *company.Company) *CompanyRecord {
	m := &CompanyRecord{
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		Currency:         c.Currency,
		TaxID:            c.TaxID,
		InvoicePrefix:    c.InvoicePrefix,
		ReceiptPrefix:    c.ReceiptPrefix,
		PaymentTermsDays: c.PaymentTermsDays,
		IsActive:         c.Active,
	}
	m.fromAggregate(c.BaseAggregateRoot)
	return m
}

// UserModel is the persistence model of a user. Emails are unique across
// companies because sign-in is by email alone.
type UserModel struct {
	CompanyModel
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	Name         string        `gorm:"type:varchar(100);not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(30);not null;index"`
	IsActive     bool          `gorm:"not null"`
	LastLoginAt  *time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		CompanyAggregateRoot: m.companyRoot(),
		Email:                m.Email,
		Name:                 m.Name,
		PasswordHash:         m.PasswordHash,
		Role:                 m.Role,
		Active:               m.IsActive,
		LastLoginAt:          m.LastLoginAt,
	}
}

// UserModelFromDomain converts a user to its model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.Active,
		LastLoginAt:  u.LastLoginAt,
	}
	m.fromCompanyRoot(u.CompanyAggregateRoot)
	return m
}
