package delivery

import (
	"encoding/json"
	"net/http"
	"skincare_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type NavigationHandler struct {
	log *logrus.Logger
}

func NewNavigationHandler(logger *logrus.Logger) *NavigationHandler {
	return &NavigationHandler{log: logger}
}

func (h *NavigationHandler) RegisterRoutes(router gin.IRouter) {
	nav := router.Group("/navigation")
	{
		nav.GET("/screens", h.ListScreens)
		nav.POST("/routes", h.ResolveRoute)
	}
}

type routeRequest struct {
	Screen string          `json:"screen" binding:"required"`
	Params json.RawMessage `json:"params"`
}

func (h *NavigationHandler) ListScreens(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Navigation screens retrieved successfully", domain.NavigationContract())
}

// ResolveRoute checks a client-built route against the screen's parameter
// contract and echoes the canonical form.
func (h *NavigationHandler) ResolveRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for route: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	route, err := domain.DecodeRoute(req.Screen, req.Params)
	if err != nil {
		h.log.Warnf("Rejected route to %s: %v", req.Screen, err)
		ErrorResponse(c, mapErrorToStatus(err), "Invalid route: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Route resolved successfully", route)
}
