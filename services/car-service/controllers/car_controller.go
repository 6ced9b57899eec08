package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/car-rental/backend/services/car-service/services"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

type CarGetter interface {
	GetCar(ctx context.Context, carID string) (*services.CarLookup, error)
}

type CarSearcher interface {
	Search(ctx context.Context, query string) ([]models.Car, error)
}

type CarController struct {
	cache   CarGetter
	catalog CarSearcher
}

func NewCarController(cache CarGetter, catalog CarSearcher) *CarController {
	return &CarController{cache: cache, catalog: catalog}
}

func (cc *CarController) RegisterRoutes(r gin.IRouter) {
	r.GET("/cars", cc.SearchCars)
	r.GET("/cars/:carId", cc.GetCar)
	r.POST("/cars/lookup", cc.LookupCar)
}

// GetCar handles GET /cars/:carId.
func (cc *CarController) GetCar(c *gin.Context) {
	cc.respondLookup(c, strings.TrimSpace(c.Param("carId")))
}

type lookupRequest struct {
	CarID string `json:"CarId"`
	// carId is accepted as well.
	CarIDLower string `json:"carId"`
}

// LookupCar handles POST /cars/lookup with body {"CarId": "..."}.
func (cc *CarController) LookupCar(c *gin.Context) {
	var req lookupRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
	}
	id := req.CarID
	if id == "" {
		id = req.CarIDLower
	}
	cc.respondLookup(c, strings.TrimSpace(id))
}

func (cc *CarController) respondLookup(c *gin.Context, carID string) {
	lookup, err := cc.cache.GetCar(c.Request.Context(), carID)
	if err != nil {
		_ = c.Error(err)
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, lookup)
}

// SearchCars handles GET /cars?q=.
func (cc *CarController) SearchCars(c *gin.Context) {
	cars, err := cc.catalog.Search(c.Request.Context(), strings.ToLower(c.Query("q")))
	if err != nil {
		_ = c.Error(err)
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": cars})
}
