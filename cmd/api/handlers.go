package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dineat/restaurant-api/internal/cart"
	"github.com/dineat/restaurant-api/internal/catalog"
	"github.com/dineat/restaurant-api/internal/chatbot"
	"github.com/dineat/restaurant-api/internal/httpx"
	"github.com/dineat/restaurant-api/internal/payment"
	"github.com/dineat/restaurant-api/internal/user"
)

// writeError maps the domain error taxonomy onto HTTP statuses. Everything
// recoverable surfaces as a structured JSON failure; nothing panics through.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, cart.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid status transition"})
	case errors.Is(err, cart.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrExpired):
		c.JSON(http.StatusOK, gin.H{"ok": false, "status": "expired"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func menuHandler(cat catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := catalog.Query{
			Category: c.Query("category"),
			Search:   c.Query("search"),
		}
		if q.Category != "" && !catalog.ValidCategory(q.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		items, err := cat.ListAvailable(c.Request.Context(), q)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, catalog.ListResponse{Category: q.Category, Search: q.Search, Items: items})
	}
}

func tablesHandler(cat catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := cat.ListAvailableTables(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tables": tables})
	}
}

func cartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		o, items, err := svc.Cart(c.Request.Context(), cur.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.CartResponse{Order: o, Items: items})
	}
}

func addItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		var req cart.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.MenuItemID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "menu_item_id is required"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		o, items, err := svc.AddItem(c.Request.Context(), cur.ID, req.MenuItemID, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.CartResponse{Order: o, Items: items})
	}
}

func setQuantityHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		var req cart.SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		o, items, err := svc.SetQuantity(c.Request.Context(), cur.ID, c.Param("id"), req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.CartResponse{Order: o, Items: items})
	}
}

func removeItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		o, items, err := svc.RemoveItem(c.Request.Context(), cur.ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.CartResponse{Order: o, Items: items})
	}
}

func checkoutHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		var req cart.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		o, err := svc.Checkout(c.Request.Context(), cur.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func historyHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		limit := intQuery(c, "limit", 20)
		offset := intQuery(c, "offset", 0)
		orders, err := svc.History(c.Request.Context(), cur.ID, limit, offset)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "limit": limit, "offset": offset})
	}
}

func orderHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		staff := cur.Role != user.RoleCustomer
		o, items, err := svc.Order(c.Request.Context(), cur.ID, staff, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.CartResponse{Order: o, Items: items})
	}
}

func activeOrdersHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ActiveOrders(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func updateStatusHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		if err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
	}
}

// paymentIntentRequest starts a payment: a token is issued into the shared
// cache and UPI details are rendered for the client.
// swagger:model
type paymentIntentRequest struct {
	Amount        string          `json:"amount" example:"620.00"`
	OrderRef      string          `json:"order_ref,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CartSnapshot  json.RawMessage `json:"cart_snapshot,omitempty"`
}

func paymentIntentHandler(tokens payment.Store, upi *payment.UPIGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || !amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive decimal"})
			return
		}
		token, err := tokens.Issue(c.Request.Context(), payment.Payload{
			CartSnapshot:  req.CartSnapshot,
			Amount:        amount.StringFixed(2),
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		ref := req.OrderRef
		if ref == "" {
			ref = token
		}
		c.JSON(http.StatusCreated, gin.H{
			"token":         token,
			"status_url":    "/payments/" + token + "/status",
			"mark_paid_url": "/payments/" + token + "/paid",
			"upi":           upi.PaymentDetails(amount, ref),
		})
	}
}

func markPaidHandler(tokens payment.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tokens.MarkPaid(c.Request.Context(), c.Param("token")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "status": payment.StatusPaid})
	}
}

func paymentStatusHandler(tokens payment.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := tokens.Status(c.Request.Context(), c.Param("token"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
	}
}

func chatHandler(assistant *chatbot.Assistant) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}
		answer, err := assistant.Answer(c.Request.Context(), req.Message)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"response": answer, "status": "success"})
	}
}

func chatStatusHandler(assistant *chatbot.Assistant) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := assistant.Ready(); err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "unavailable", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "available"})
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
