package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/service"
	"github.com/bilasin/bilasin/internal/tenant"
)

type orderResponse struct {
	ID              int64                `json:"id"`
	TrackingCode    string               `json:"tracking_code"`
	CustomerName    string               `json:"customer_name"`
	CustomerAddress string               `json:"customer_address"`
	CustomerPhone   string               `json:"customer_phone"`
	ServiceType     domain.ServiceType   `json:"service_type"`
	OrderType       domain.OrderType     `json:"order_type"`
	Status          domain.OrderStatus   `json:"status"`
	Weight          *decimal.Decimal     `json:"weight"`
	Items           []domain.OrderItem   `json:"items"`
	TotalPrice      *decimal.Decimal     `json:"total_price"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		TrackingCode:    o.TrackingCode,
		CustomerName:    o.CustomerName,
		CustomerAddress: o.CustomerAddress,
		CustomerPhone:   o.CustomerPhone,
		ServiceType:     o.ServiceType,
		OrderType:       o.OrderType,
		Status:          o.Status,
		Weight:          o.Weight,
		Items:           o.Items,
		TotalPrice:      o.TotalPrice,
		PaymentStatus:   o.PaymentStatus,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

type createOrderRequest struct {
	AdminID         int64  `json:"admin_id" validate:"required"`
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerAddress string `json:"customer_address" validate:"required"`
	CustomerPhone   string `json:"customer_phone" validate:"required,max=20"`
	ServiceType     string `json:"service_type" validate:"required,oneof=kiloan satuan"`
	OrderType       string `json:"order_type" validate:"required,oneof=pickup dropoff"`
}

// createOrder is the public intake endpoint: customers place an order with a
// shop and receive the tracking code in return.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	const op = "handler.order.create"

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkPayload(op, req); err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), service.CreateOrderParams{
		AdminID:         req.AdminID,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   req.CustomerPhone,
		ServiceType:     domain.ServiceType(req.ServiceType),
		OrderType:       domain.OrderType(req.OrderType),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Order created", toOrderResponse(order))
}

// trackOrder is the public tracking endpoint; no authentication, the code is
// the capability.
func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.TrackOrder(r.Context(), chi.URLParam(r, "trackingCode"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	adminID := tenant.IDFromContext(r.Context())
	q := r.URL.Query()

	filter := domain.OrderFilter{Search: q.Get("search")}
	if v := q.Get("status"); v != "" {
		s := domain.OrderStatus(v)
		filter.Status = &s
	}
	if v := q.Get("payment_status"); v != "" {
		s := domain.PaymentStatus(v)
		filter.PaymentStatus = &s
	}
	if v := q.Get("order_type"); v != "" {
		s := domain.OrderType(v)
		filter.OrderType = &s
	}
	filter.Limit = int32(queryInt(q.Get("limit")))
	filter.Offset = int32(queryInt(q.Get("offset")))

	orders, err := h.orders.ListOrders(r.Context(), adminID, filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), tenant.IDFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, toOrderResponse(order))
}

type updateOrderRequest struct {
	Status        *string            `json:"status"`
	Weight        *decimal.Decimal   `json:"weight"`
	Items         []domain.OrderItem `json:"items"`
	TotalPrice    *decimal.Decimal   `json:"total_price"`
	PaymentStatus *string            `json:"payment_status"`
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	params := service.UpdateOrderParams{
		Weight:     req.Weight,
		Items:      req.Items,
		TotalPrice: req.TotalPrice,
	}
	if req.Status != nil {
		s := domain.OrderStatus(*req.Status)
		params.Status = &s
	}
	if req.PaymentStatus != nil {
		s := domain.PaymentStatus(*req.PaymentStatus)
		params.PaymentStatus = &s
	}

	order, err := h.orders.UpdateOrder(r.Context(), tenant.IDFromContext(r.Context()), id, params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Order updated", toOrderResponse(order))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), tenant.IDFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Order deleted", nil)
}

func (h *Handler) resetOrders(w http.ResponseWriter, r *http.Request) {
	count, err := h.orders.ResetOrders(r.Context(), tenant.IDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "All orders deleted", map[string]int64{"deleted": count})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context(), tenant.IDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"total_orders":     stats.TotalOrders,
		"active_orders":    stats.ActiveOrders,
		"completed_orders": stats.CompletedOrders,
		"total_revenue":    stats.TotalRevenue,
		"pending_pickups":  stats.PendingPickups,
	})
}

func queryInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0
	}
	return v
}
