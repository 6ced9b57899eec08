package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/car-rental/backend/api-gateway/proxy"
)

// Targets are the backend base URLs the gateway forwards to.
type Targets struct {
	Booking     string
	Car         string
	Cart        string
	Maintenance string
}

// RegisterAllRoutes mounts every public path on r. Auth is applied by r's
// middleware chain, not here.
func RegisterAllRoutes(r gin.IRouter, f *proxy.Forwarder, t Targets) {
	bookings := f.To(t.Booking)
	r.POST("/bookings", bookings)
	r.POST("/bookings/invoke", bookings)

	cars := f.To(t.Car)
	r.GET("/cars", cars)
	r.GET("/cars/:carId", cars)
	r.POST("/cars/lookup", cars)

	cart := f.To(t.Cart)
	r.GET("/cart", cart)
	r.POST("/cart", cart)
	r.DELETE("/cart", cart)

	r.POST("/maintenance/run", f.To(t.Maintenance))
}
