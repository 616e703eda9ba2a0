package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// ListQuotations returns one page of quotations
func (s *Service) ListQuotations(ctx context.Context, q QuotationListQuery) (shared.Paginated[QuotationResponse], error) {
	filter := sales.QuotationFilter{
		Filter:      q.Filter(),
		ReferenceID: q.ReferenceID,
		Status:      sales.QuotationStatus(q.Status),
	}
	quotes, total, err := s.quotations.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[QuotationResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(quotes, ToQuotationResponse), total, filter.Page, filter.PageSize), nil
}

// GetQuotation returns one quotation
func (s *Service) GetQuotation(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(q)
	return &response, nil
}

// CreateQuotation issues a quotation with a unique number
func (s *Service) CreateQuotation(ctx context.Context, actor string, req CreateQuotationRequest) (*QuotationResponse, error) {
	q, err := sales.NewQuotation(req.QuotationNumber, owner(req.ReferenceID, actor), req.CompanyName, req.Amount)
	if err != nil {
		return nil, err
	}
	exists, err := s.quotations.ExistsByNumber(ctx, q.QuotationNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Quotation number already exists")
	}
	q.ValidUntil = req.ValidUntil

	if err := s.quotations.Save(ctx, q); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(q)
	return &response, nil
}

// ChangeQuotationStatus moves a quotation. Declined and converted quotations are final.
func (s *Service) ChangeQuotationStatus(ctx context.Context, id uuid.UUID, req QuotationStatusRequest) (*QuotationResponse, error) {
	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.ChangeStatus(sales.QuotationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.quotations.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}
	response := ToQuotationResponse(q)
	return &response, nil
}

// ListSalesOrders returns one page of sales orders
func (s *Service) ListSalesOrders(ctx context.Context, q SalesOrderListQuery) (shared.Paginated[SalesOrderResponse], error) {
	filter := sales.SalesOrderFilter{
		Filter:      q.Filter(),
		ReferenceID: q.ReferenceID,
		Status:      sales.SalesOrderStatus(q.Status),
	}
	orders, total, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SalesOrderResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(orders, ToSalesOrderResponse), total, filter.Page, filter.PageSize), nil
}

// GetSalesOrder returns one sales order
func (s *Service) GetSalesOrder(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(o)
	return &response, nil
}

// CreateSalesOrder books an order with a unique SO number
func (s *Service) CreateSalesOrder(ctx context.Context, actor string, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	o, err := sales.NewSalesOrder(req.SONumber, owner(req.ReferenceID, actor), req.CompanyName, req.Amount)
	if err != nil {
		return nil, err
	}
	exists, err := s.orders.ExistsByNumber(ctx, o.SONumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("SO number already exists")
	}
	o.QuotationNumber = req.QuotationNumber

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToSalesOrderResponse(o)
	return &response, nil
}

// ChangeSalesOrderStatus delivers or cancels an open order
func (s *Service) ChangeSalesOrderStatus(ctx context.Context, id uuid.UUID, req SalesOrderStatusRequest) (*SalesOrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sales.SalesOrderStatus(req.Status) {
	case sales.SalesOrderStatusDelivered:
		err = o.MarkDelivered(req.ActualSales, time.Now())
	case sales.SalesOrderStatusCancelled:
		err = o.Cancel()
	default:
		err = shared.ErrInvalidInput.WithMessage("Sales orders can only be delivered or cancelled")
	}
	if err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToSalesOrderResponse(o)
	return &response, nil
}
