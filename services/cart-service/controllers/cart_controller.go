package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yashrajoria/car-rental/backend/services/cart-service/services"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

type Cart interface {
	AddItem(ctx context.Context, e models.CartEntry) error
	RemoveItem(ctx context.Context, userID, carID string) error
	ListItems(ctx context.Context, userID string) ([]services.CartItem, error)
}

type CartController struct {
	cart Cart
}

func NewCartController(cart Cart) *CartController {
	return &CartController{cart: cart}
}

func (cc *CartController) RegisterRoutes(r gin.IRouter) {
	r.GET("/cart", cc.GetCart)
	r.POST("/cart", cc.AddItem)
	r.DELETE("/cart", cc.RemoveItem)
}

type addItemRequest struct {
	UserID string `json:"UserId"`
	CarID  string `json:"CarId"`
	// Quantity accepts a JSON number or a numeric string.
	Quantity *decimal.Decimal `json:"Quantity"`
}

// AddItem handles POST /cart.
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	entry := models.CartEntry{UserID: req.UserID, CarID: req.CarID, Quantity: 1}
	if req.Quantity != nil {
		if !req.Quantity.IsInteger() || req.Quantity.LessThan(decimal.NewFromInt(1)) || req.Quantity.GreaterThan(decimal.NewFromInt(1<<31-1)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a whole number of days"})
			return
		}
		entry.Quantity = int(req.Quantity.IntPart())
	}
	if err := cc.cart.AddItem(c.Request.Context(), entry); err != nil {
		_ = c.Error(err)
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart."})
}

// RemoveItem handles DELETE /cart?UserId=&CarId=.
func (cc *CartController) RemoveItem(c *gin.Context) {
	if err := cc.cart.RemoveItem(c.Request.Context(), c.Query("UserId"), c.Query("CarId")); err != nil {
		_ = c.Error(err)
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart."})
}

// GetCart handles GET /cart?UserId=.
func (cc *CartController) GetCart(c *gin.Context) {
	items, err := cc.cart.ListItems(c.Request.Context(), c.Query("UserId"))
	if err != nil {
		_ = c.Error(err)
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart retrieved.", "cartItems": items})
}
