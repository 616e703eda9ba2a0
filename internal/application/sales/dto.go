package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// ListQuery holds the paging and sort parameters shared by every listing
type ListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
}

// Filter converts the query into a normalized shared filter
func (q ListQuery) Filter() shared.Filter {
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	}.Normalize()
}

// =============================================================================
// Accounts
// =============================================================================

// AccountListQuery filters the account listing
type AccountListQuery struct {
	ListQuery
	ReferenceID  string `form:"referenceid"`
	TSM          string `form:"tsm"`
	Manager      string `form:"manager"`
	CompanyGroup string `form:"companygroup"`
	TypeClient   string `form:"typeclient"`
	Status       string `form:"status"`
}

// CreateAccountRequest creates a company account
type CreateAccountRequest struct {
	ReferenceID   string         `json:"referenceid" binding:"omitempty,referenceid"`
	CompanyName   string         `json:"companyname" binding:"required,max=255"`
	ContactPerson string         `json:"contactperson" binding:"max=255"`
	ContactNumber string         `json:"contactnumber" binding:"max=100"`
	EmailAddress  string         `json:"emailaddress" binding:"omitempty,email,max=255"`
	TypeClient    string         `json:"typeclient" binding:"max=100"`
	Address       string         `json:"address" binding:"max=500"`
	Area          string         `json:"area" binding:"max=100"`
	CompanyGroup  string         `json:"companygroup" binding:"max=255"`
	TSM           string         `json:"tsm"`
	Manager       string         `json:"manager"`
	Extra         map[string]any `json:"extra"`
}

// UpdateAccountRequest changes the provided account fields
type UpdateAccountRequest struct {
	CompanyName   *string        `json:"companyname" binding:"omitempty,min=1,max=255"`
	ContactPerson *string        `json:"contactperson" binding:"omitempty,max=255"`
	ContactNumber *string        `json:"contactnumber" binding:"omitempty,max=100"`
	EmailAddress  *string        `json:"emailaddress" binding:"omitempty,email,max=255"`
	TypeClient    *string        `json:"typeclient" binding:"omitempty,max=100"`
	Address       *string        `json:"address" binding:"omitempty,max=500"`
	Area          *string        `json:"area" binding:"omitempty,max=100"`
	CompanyGroup  *string        `json:"companygroup" binding:"omitempty,max=255"`
	Status        *string        `json:"status"`
	Extra         map[string]any `json:"extra"`
	Version       *int           `json:"version"`
}

// AccountResponse is the API view of an account
type AccountResponse struct {
	ID            uuid.UUID      `json:"id"`
	ReferenceID   string         `json:"referenceid"`
	CompanyName   string         `json:"companyname"`
	ContactPerson string         `json:"contactperson"`
	ContactNumber string         `json:"contactnumber"`
	EmailAddress  string         `json:"emailaddress"`
	TypeClient    string         `json:"typeclient"`
	Address       string         `json:"address"`
	Area          string         `json:"area"`
	CompanyGroup  string         `json:"companygroup"`
	Status        string         `json:"status"`
	TSM           string         `json:"tsm"`
	Manager       string         `json:"manager"`
	Extra         map[string]any `json:"extra,omitempty"`
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ToAccountResponse converts a domain account
func ToAccountResponse(a *sales.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		ReferenceID:   a.ReferenceID,
		CompanyName:   a.CompanyName,
		ContactPerson: a.ContactPerson,
		ContactNumber: a.ContactNumber,
		EmailAddress:  a.EmailAddress,
		TypeClient:    a.TypeClient,
		Address:       a.Address,
		Area:          a.Area,
		CompanyGroup:  a.CompanyGroup,
		Status:        string(a.Status),
		TSM:           a.TSM,
		Manager:       a.Manager,
		Extra:         a.Extra,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// =============================================================================
// Activities
// =============================================================================

// ActivityListQuery filters the activity listing
type ActivityListQuery struct {
	ListQuery
	ReferenceID    string     `form:"referenceid"`
	TSM            string     `form:"tsm"`
	Manager        string     `form:"manager"`
	ActivityStatus string     `form:"activitystatus"`
	CallStatus     string     `form:"callstatus"`
	CompanyGroup   string     `form:"companygroup"`
	From           *time.Time `form:"from" time_format:"2006-01-02"`
	To             *time.Time `form:"to" time_format:"2006-01-02"`
}

// CreateActivityRequest logs a sales activity. Amounts accept numbers or
// numeric strings, anything else reads as zero.
type CreateActivityRequest struct {
	ReferenceID     string        `json:"referenceid" binding:"omitempty,referenceid"`
	Manager         string        `json:"manager"`
	TSM             string        `json:"tsm"`
	CompanyName     string        `json:"companyname" binding:"required,max=255"`
	CompanyGroup    string        `json:"companygroup"`
	ContactPerson   string        `json:"contactperson"`
	TypeActivity    string        `json:"typeactivity" binding:"max=100"`
	CallStatus      string        `json:"callstatus" binding:"max=50"`
	ActivityStatus  string        `json:"activitystatus" binding:"max=50"`
	Remarks         string        `json:"remarks"`
	QuotationNumber string        `json:"quotationnumber"`
	QuotationAmount shared.Amount `json:"quotationamount"`
	SONumber        string        `json:"sonumber"`
	SOAmount        shared.Amount `json:"soamount"`
	ActualSales     shared.Amount `json:"actualsales"`
	ActivityDate    *time.Time    `json:"activitydate"`
}

// ActivityResponse is the API view of an activity
type ActivityResponse struct {
	ID              uuid.UUID     `json:"id"`
	ReferenceID     string        `json:"referenceid"`
	Manager         string        `json:"manager"`
	TSM             string        `json:"tsm"`
	CompanyName     string        `json:"companyname"`
	CompanyGroup    string        `json:"companygroup"`
	ContactPerson   string        `json:"contactperson"`
	TypeActivity    string        `json:"typeactivity"`
	CallStatus      string        `json:"callstatus"`
	ActivityStatus  string        `json:"activitystatus"`
	Remarks         string        `json:"remarks"`
	QuotationNumber string        `json:"quotationnumber"`
	QuotationAmount shared.Amount `json:"quotationamount"`
	SONumber        string        `json:"sonumber"`
	SOAmount        shared.Amount `json:"soamount"`
	ActualSales     shared.Amount `json:"actualsales"`
	ActivityDate    time.Time     `json:"activitydate"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ToActivityResponse converts a domain activity
func ToActivityResponse(a *sales.Activity) ActivityResponse {
	return ActivityResponse{
		ID:              a.ID,
		ReferenceID:     a.ReferenceID,
		Manager:         a.Manager,
		TSM:             a.TSM,
		CompanyName:     a.CompanyName,
		CompanyGroup:    a.CompanyGroup,
		ContactPerson:   a.ContactPerson,
		TypeActivity:    a.TypeActivity,
		CallStatus:      a.CallStatus,
		ActivityStatus:  a.ActivityStatus,
		Remarks:         a.Remarks,
		QuotationNumber: a.QuotationNumber,
		QuotationAmount: a.QuotationAmount,
		SONumber:        a.SONumber,
		SOAmount:        a.SOAmount,
		ActualSales:     a.ActualSales,
		ActivityDate:    a.ActivityDate,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// =============================================================================
// Quotations and sales orders
// =============================================================================

// QuotationListQuery filters the quotation listing
type QuotationListQuery struct {
	ListQuery
	ReferenceID string `form:"referenceid"`
	Status      string `form:"status"`
}

// CreateQuotationRequest issues a quotation
type CreateQuotationRequest struct {
	QuotationNumber string        `json:"quotationnumber" binding:"required,max=100"`
	ReferenceID     string        `json:"referenceid" binding:"omitempty,referenceid"`
	CompanyName     string        `json:"companyname" binding:"max=255"`
	Amount          shared.Amount `json:"amount"`
	ValidUntil      *time.Time    `json:"validuntil"`
}

// QuotationResponse is the API view of a quotation
type QuotationResponse struct {
	ID              uuid.UUID     `json:"id"`
	QuotationNumber string        `json:"quotationnumber"`
	ReferenceID     string        `json:"referenceid"`
	CompanyName     string        `json:"companyname"`
	Amount          shared.Amount `json:"amount"`
	Status          string        `json:"status"`
	ValidUntil      *time.Time    `json:"validuntil,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ToQuotationResponse converts a domain quotation
func ToQuotationResponse(q *sales.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ReferenceID:     q.ReferenceID,
		CompanyName:     q.CompanyName,
		Amount:          q.Amount,
		Status:          string(q.Status),
		ValidUntil:      q.ValidUntil,
		CreatedAt:       q.CreatedAt,
	}
}

// SalesOrderListQuery filters the sales order listing
type SalesOrderListQuery struct {
	ListQuery
	ReferenceID string `form:"referenceid"`
	Status      string `form:"status"`
}

// CreateSalesOrderRequest books a sales order
type CreateSalesOrderRequest struct {
	SONumber        string        `json:"sonumber" binding:"required,max=100"`
	ReferenceID     string        `json:"referenceid" binding:"omitempty,referenceid"`
	CompanyName     string        `json:"companyname" binding:"max=255"`
	QuotationNumber string        `json:"quotationnumber"`
	Amount          shared.Amount `json:"amount"`
}

// SalesOrderResponse is the API view of a sales order
type SalesOrderResponse struct {
	ID              uuid.UUID     `json:"id"`
	SONumber        string        `json:"sonumber"`
	ReferenceID     string        `json:"referenceid"`
	CompanyName     string        `json:"companyname"`
	QuotationNumber string        `json:"quotationnumber"`
	Amount          shared.Amount `json:"amount"`
	ActualSales     shared.Amount `json:"actualsales"`
	Status          string        `json:"status"`
	DeliveryDate    *time.Time    `json:"deliverydate,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ToSalesOrderResponse converts a domain sales order
func ToSalesOrderResponse(o *sales.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:              o.ID,
		SONumber:        o.SONumber,
		ReferenceID:     o.ReferenceID,
		CompanyName:     o.CompanyName,
		QuotationNumber: o.QuotationNumber,
		Amount:          o.Amount,
		ActualSales:     o.ActualSales,
		Status:          string(o.Status),
		DeliveryDate:    o.DeliveryDate,
		CreatedAt:       o.CreatedAt,
	}
}

func mapSlice[T, R any](items []T, convert func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = convert(&items[i])
	}
	return out
}

// UpdateActivityRequest changes the provided activity fields
type UpdateActivityRequest struct {
	CallStatus      *string        `json:"callstatus" binding:"omitempty,max=50"`
	ActivityStatus  *string        `json:"activitystatus" binding:"omitempty,max=50"`
	Remarks         *string        `json:"remarks"`
	QuotationNumber *string        `json:"quotationnumber"`
	QuotationAmount *shared.Amount `json:"quotationamount"`
	SONumber        *string        `json:"sonumber"`
	SOAmount        *shared.Amount `json:"soamount"`
	ActualSales     *shared.Amount `json:"actualsales"`
	Version         *int           `json:"version"`
}

// QuotationStatusRequest moves a quotation to another status
type QuotationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Approved Declined Converted"`
}

// SalesOrderStatusRequest delivers or cancels a sales order
type SalesOrderStatusRequest struct {
	Status      string        `json:"status" binding:"required,oneof=Delivered Cancelled"`
	ActualSales shared.Amount `json:"actualsales"`
}
