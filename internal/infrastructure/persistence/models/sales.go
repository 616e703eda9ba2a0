package models

import (
	"time"

	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// AccountModel is the persistence model for company accounts.
type AccountModel struct {
	VersionedModel
	ReferenceID   string              `gorm:"type:varchar(50);not null;index"`
	CompanyName   string              `gorm:"type:varchar(255);not null"`
	ContactPerson string              `gorm:"type:varchar(255)"`
	ContactNumber string              `gorm:"type:varchar(100)"`
	EmailAddress  string              `gorm:"type:varchar(255)"`
	TypeClient    string              `gorm:"type:varchar(100)"`
	Address       string              `gorm:"type:text"`
	Area          string              `gorm:"type:varchar(100)"`
	CompanyGroup  string              `gorm:"type:varchar(255);index"`
	Status        sales.AccountStatus `gorm:"type:varchar(30);not null;default:'Active'"`
	TSM           string              `gorm:"column:tsm;type:varchar(50);index"`
	Manager       string              `gorm:"type:varchar(50);index"`
	Extra         map[string]any      `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *sales.Account {
	extra := m.Extra
	if extra == nil {
		extra = make(map[string]any)
	}
	return &sales.Account{
		VersionedEntity: m.ToVersioned(),
		ReferenceID:     m.ReferenceID,
		CompanyName:     m.CompanyName,
		ContactPerson:   m.ContactPerson,
		ContactNumber:   m.ContactNumber,
		EmailAddress:    m.EmailAddress,
		TypeClient:      m.TypeClient,
		Address:         m.Address,
		Area:            m.Area,
		CompanyGroup:    m.CompanyGroup,
		Status:          m.Status,
		TSM:             m.TSM,
		Manager:         m.Manager,
		Extra:           extra,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *sales.Account) {
	m.FromDomainVersioned(a.VersionedEntity)
	m.ReferenceID = a.ReferenceID
	m.CompanyName = a.CompanyName
	m.ContactPerson = a.ContactPerson
	m.ContactNumber = a.ContactNumber
	m.EmailAddress = a.EmailAddress
	m.TypeClient = a.TypeClient
	m.Address = a.Address
	m.Area = a.Area
	m.CompanyGroup = a.CompanyGroup
	m.Status = a.Status
	m.TSM = a.TSM
	m.Manager = a.Manager
	m.Extra = a.Extra
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *sales.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// ActivityModel is the persistence model for sales activities.
type ActivityModel struct {
	VersionedModel
	ReferenceID     string        `gorm:"type:varchar(50);not null;index"`
	Manager         string        `gorm:"type:varchar(50);index"`
	TSM             string        `gorm:"column:tsm;type:varchar(50);index"`
	CompanyName     string        `gorm:"type:varchar(255);not null"`
	CompanyGroup    string        `gorm:"type:varchar(255)"`
	ContactPerson   string        `gorm:"type:varchar(255)"`
	TypeActivity    string        `gorm:"type:varchar(100)"`
	CallStatus      string        `gorm:"type:varchar(50)"`
	ActivityStatus  string        `gorm:"type:varchar(50);index"`
	Remarks         string        `gorm:"type:text"`
	QuotationNumber string        `gorm:"type:varchar(50)"`
	QuotationAmount shared.Amount `gorm:"type:numeric(18,2);not null;default:0"`
	SONumber        string        `gorm:"column:so_number;type:varchar(50)"`
	SOAmount        shared.Amount `gorm:"column:so_amount;type:numeric(18,2);not null;default:0"`
	ActualSales     shared.Amount `gorm:"type:numeric(18,2);not null;default:0"`
	ActivityDate    time.Time     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity
func (m *ActivityModel) ToDomain() *sales.Activity {
	return &sales.Activity{
		VersionedEntity: m.ToVersioned(),
		ReferenceID:     m.ReferenceID,
		Manager:         m.Manager,
		TSM:             m.TSM,
		CompanyName:     m.CompanyName,
		CompanyGroup:    m.CompanyGroup,
		ContactPerson:   m.ContactPerson,
		TypeActivity:    m.TypeActivity,
		CallStatus:      m.CallStatus,
		ActivityStatus:  m.ActivityStatus,
		Remarks:         m.Remarks,
		QuotationNumber: m.QuotationNumber,
		QuotationAmount: m.QuotationAmount,
		SONumber:        m.SONumber,
		SOAmount:        m.SOAmount,
		ActualSales:     m.ActualSales,
		ActivityDate:    m.ActivityDate,
	}
}

// FromDomain populates the persistence model from a domain Activity
func (m *ActivityModel) FromDomain(a *sales.Activity) {
	m.FromDomainVersioned(a.VersionedEntity)
	m.ReferenceID = a.ReferenceID
	m.Manager = a.Manager
	m.TSM = a.TSM
	m.CompanyName = a.CompanyName
	m.CompanyGroup = a.CompanyGroup
	m.ContactPerson = a.ContactPerson
	m.TypeActivity = a.TypeActivity
	m.CallStatus = a.CallStatus
	m.ActivityStatus = a.ActivityStatus
	m.Remarks = a.Remarks
	m.QuotationNumber = a.QuotationNumber
	m.QuotationAmount = a.QuotationAmount
	m.SONumber = a.SONumber
	m.SOAmount = a.SOAmount
	m.ActualSales = a.ActualSales
	m.ActivityDate = a.ActivityDate
}

// ActivityModelFromDomain creates a new persistence model from a domain Activity
func ActivityModelFromDomain(a *sales.Activity) *ActivityModel {
	m := &ActivityModel{}
	m.FromDomain(a)
	return m
}

// QuotationModel is the persistence model for quotations.
type QuotationModel struct {
	VersionedModel
	QuotationNumber string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	ReferenceID     string                `gorm:"type:varchar(50);not null;index"`
	CompanyName     string                `gorm:"type:varchar(255)"`
	Amount          shared.Amount         `gorm:"type:numeric(18,2);not null;default:0"`
	Status          sales.QuotationStatus `gorm:"type:varchar(30);not null;default:'Pending'"`
	ValidUntil      *time.Time
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the persistence model to a domain Quotation
func (m *QuotationModel) ToDomain() *sales.Quotation {
	return &sales.Quotation{
		VersionedEntity: m.ToVersioned(),
		QuotationNumber: m.QuotationNumber,
		ReferenceID:     m.ReferenceID,
		CompanyName:     m.CompanyName,
		Amount:          m.Amount,
		Status:          m.Status,
		ValidUntil:      m.ValidUntil,
	}
}

// FromDomain populates the persistence model from a domain Quotation
func (m *QuotationModel) FromDomain(q *sales.Quotation) {
	m.FromDomainVersioned(q.VersionedEntity)
	m.QuotationNumber = q.QuotationNumber
	m.ReferenceID = q.ReferenceID
	m.CompanyName = q.CompanyName
	m.Amount = q.Amount
	m.Status = q.Status
	m.ValidUntil = q.ValidUntil
}

// SalesOrderModel is the persistence model for sales orders.
type SalesOrderModel struct {
	VersionedModel
	SONumber        string                 `gorm:"column:so_number;type:varchar(50);not null;uniqueIndex"`
	ReferenceID     string                 `gorm:"type:varchar(50);not null;index"`
	CompanyName     string                 `gorm:"type:varchar(255)"`
	QuotationNumber string                 `gorm:"type:varchar(50)"`
	Amount          shared.Amount          `gorm:"type:numeric(18,2);not null;default:0"`
	ActualSales     shared.Amount          `gorm:"type:numeric(18,2);not null;default:0"`
	Status          sales.SalesOrderStatus `gorm:"type:varchar(30);not null;default:'SO-Done'"`
	DeliveryDate    *time.Time
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() *sales.SalesOrder {
	return &sales.SalesOrder{
		VersionedEntity: m.ToVersioned(),
		SONumber:        m.SONumber,
		ReferenceID:     m.ReferenceID,
		CompanyName:     m.CompanyName,
		QuotationNumber: m.QuotationNumber,
		Amount:          m.Amount,
		ActualSales:     m.ActualSales,
		Status:          m.Status,
		DeliveryDate:    m.DeliveryDate,
	}
}

// FromDomain populates the persistence model from a domain SalesOrder
func (m *SalesOrderModel) FromDomain(o *sales.SalesOrder) {
	m.FromDomainVersioned(o.VersionedEntity)
	m.SONumber = o.SONumber
	m.ReferenceID = o.ReferenceID
	m.CompanyName = o.CompanyName
	m.QuotationNumber = o.QuotationNumber
	m.Amount = o.Amount
	m.ActualSales = o.ActualSales
	m.Status = o.Status
	m.DeliveryDate = o.DeliveryDate
}
