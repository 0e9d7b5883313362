package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/logging"
	"github.com/storefront/backend/internal/models"
	"github.com/storefront/backend/internal/mykafka"
	"github.com/storefront/backend/internal/service/token"
)

const PaymentMethodCOD = "Cash on Delivery"

type OrderHandler struct {
	DB           *gorm.DB
	Producer     *mykafka.Producer
	ReturnWindow time.Duration
}

type orderItemRequest struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type createOrderRequest struct {
	OrderItems     []orderItemRequest `json:"order_items"`
	ShipAddress    string             `json:"ship_address"`
	ShipCity       string             `json:"ship_city"`
	ShipPostalCode string             `json:"ship_postal_code"`
	ShipCountry    string             `json:"ship_country"`
	PaymentMethod  string             `json:"payment_method"`
	ItemsPrice     float64            `json:"items_price"`
	TaxPrice       float64            `json:"tax_price"`
	ShippingPrice  float64            `json:"shipping_price"`
	TotalPrice     float64            `json:"total_price"`
}

// CreateOrder persists the checkout snapshot. Totals are stored as submitted
// and never recomputed. Cash-on-delivery orders start unpaid, every other
// method is treated as captured at checkout. Stock is decremented for each
// item inside the same transaction as the order insert.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if len(req.OrderItems) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no order items")
	}
	for _, it := range req.OrderItems {
		if it.ProductID == 0 || it.Qty <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "order items need a product id and a positive qty")
		}
	}

	order := models.Order{
		UserID:         userID,
		ShipAddress:    req.ShipAddress,
		ShipCity:       req.ShipCity,
		ShipPostalCode: req.ShipPostalCode,
		ShipCountry:    req.ShipCountry,
		PaymentMethod:  req.PaymentMethod,
		ItemsPrice:     req.ItemsPrice,
		TaxPrice:       req.TaxPrice,
		ShippingPrice:  req.ShippingPrice,
		TotalPrice:     req.TotalPrice,
	}
	if req.PaymentMethod != PaymentMethodCOD {
		now := time.Now()
		order.IsPaid = true
		order.PaidAt = &now
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		for _, it := range req.OrderItems {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "product not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}

			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Name:      it.Name,
				Qty:       it.Qty,
				Price:     it.Price,
				Image:     it.Image,
			}
			if err := tx.Create(&item).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			order.OrderItems = append(order.OrderItems, item)

			p.CountInStock -= it.Qty
			if err := tx.Save(&p).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
		return nil
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	logging.FromContext(c.Request().Context()).Info("order created",
		"orderID", order.ID, "userID", userID, "total", order.TotalPrice)

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.TotalPrice,
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(orders) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no orders found for the logged-in user")
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder resolves the order for its owner or an admin; anyone else gets
// the same not-found as a missing id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.Preload("OrderItems").Preload("User").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if order.UserID != userID && !token.IsAdmin(c) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, order)
}

// PayOrder records the payment result supplied by the caller. The record is
// stored as-is, there is no verification against a payment provider.
func (h *OrderHandler) PayOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		UpdateTime string `json:"update_time"`
		Email      string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentID = req.ID
	order.PaymentStatus = req.Status
	order.PaymentTime = req.UpdateTime
	order.PayerEmail = req.Email

	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.UserID), map[string]any{
		"type":    "order_paid",
		"orderID": order.ID,
	})

	return c.JSON(http.StatusOK, order)
}

// DeliverOrder marks the order delivered. Delivery does not require payment,
// the two flags are independent.
func (h *OrderHandler) DeliverOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now

	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.UserID), map[string]any{
		"type":    "order_delivered",
		"orderID": order.ID,
	})

	return c.JSON(http.StatusOK, order)
}

// ReturnOrder flips the one-way returned flag, but only while the order is
// still inside the return window measured from its creation time.
func (h *OrderHandler) ReturnOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if time.Since(order.CreatedAt) > h.ReturnWindow {
		msg := fmt.Sprintf("you cannot return the order after %d minutes of purchase",
			int(h.ReturnWindow.Minutes()))
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	}

	order.IsReturned = true
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.UserID), map[string]any{
		"type":    "order_returned",
		"orderID": order.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "order successfully returned"})
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Preload("OrderItems").Preload("User").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(orders) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "orders not found")
	}

	return c.JSON(http.StatusOK, orders)
}

type topCustomer struct {
	UserID     uint    `json:"user_id"`
	Name       string  `json:"name"`
	OrderCount int64   `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

func (h *OrderHandler) TopCustomers(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 5)

	var rows []topCustomer
	err := h.DB.Model(&models.Order{}).
		Select("orders.user_id AS user_id, users.name AS name, COUNT(orders.id) AS order_count, SUM(orders.total_price) AS total_spent").
		Joins("JOIN users ON users.id = orders.user_id").
		Group("orders.user_id, users.name").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}

type topProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int64  `json:"units_sold"`
}

func (h *OrderHandler) TopProducts(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 5)

	var rows []topProduct
	err := h.DB.Model(&models.OrderItem{}).
		Select("product_id, name, SUM(qty) AS units_sold").
		Group("product_id, name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}
