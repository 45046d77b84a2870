package delivery

import (
	"net/http"
	"skincare_service/internal/domain"
	"skincare_service/internal/usecase"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.POST("/scrape", h.ScrapeProducts)
		products.GET("/:id", h.GetProductByID)
		products.PATCH("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

type productUpdateRequest struct {
	Name         *string           `json:"name"`
	Image        *domain.ImageRef  `json:"imageUrl"`
	Price        *string           `json:"price"`
	Brand        *string           `json:"brand"`
	PurchaseLink *string           `json:"purchase_link"`
	Rating       *float64          `json:"rating"`
	SkinIssue    *domain.SkinIssue `json:"skin_issue"`
}

func (r productUpdateRequest) toDomain() domain.ProductUpdate {
	return domain.ProductUpdate{
		Name:         r.Name,
		Image:        r.Image,
		Price:        r.Price,
		Brand:        r.Brand,
		PurchaseLink: r.PurchaseLink,
		Rating:       r.Rating,
		SkinIssue:    r.SkinIssue,
	}
}

type scrapeRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.log.Errorf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	createdProduct, err := h.useCase.CreateProduct(c.Request.Context(), &product)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		ErrorResponse(c, statusCode, "Failed to create product: "+err.Error())
		return
	}

	h.log.Infof("Product created successfully: ID %s, Name %s", createdProduct.ID, createdProduct.Name)
	SuccessResponse(c, http.StatusCreated, "Product created successfully", createdProduct)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get product by ID %s: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to retrieve product: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for update product ID %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	update := req.toDomain()
	if update.Empty() {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: no fields provided for update")
		return
	}

	updatedProduct, err := h.useCase.UpdateProduct(c.Request.Context(), id, update)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to update product ID %s: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update product: "+err.Error())
		return
	}

	h.log.Infof("Product updated successfully: ID %s", updatedProduct.ID)
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updatedProduct)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to delete product ID %s: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete product: "+err.Error())
		return
	}

	h.log.Infof("Product deleted successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")
	issueStr := c.Query("skin_issue")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		h.log.Warnf("Invalid limit parameter '%s', using default 10", limitStr)
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		h.log.Warnf("Invalid offset parameter '%s', using default 0", offsetStr)
		offset = 0
	}

	var products []domain.Product
	var listErr error

	if issueStr != "" {
		issue, err := domain.ParseSkinIssue(issueStr)
		if err != nil {
			h.log.Warnf("Invalid skin_issue filter parameter: %s", issueStr)
			ErrorResponse(c, http.StatusBadRequest, "Invalid skin_issue filter: "+err.Error())
			return
		}
		products, listErr = h.useCase.ListProductsBySkinIssue(c.Request.Context(), issue, limit, offset)
	} else {
		products, listErr = h.useCase.ListProducts(c.Request.Context(), limit, offset)
	}

	if listErr != nil {
		statusCode := mapErrorToStatus(listErr)
		h.log.Errorf("Failed to list products: %v", listErr)
		ErrorResponse(c, statusCode, "Failed to retrieve products: "+listErr.Error())
		return
	}

	h.log.Infof("Retrieved %d products", len(products))
	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching criteria", []domain.Product{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) ScrapeProducts(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for scrape request: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	listings, err := h.useCase.ScrapeProducts(c.Request.Context(), req.URLs)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to scrape %d urls: %v", len(req.URLs), err)
		ErrorResponse(c, statusCode, "Failed to scrape products: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Products scraped successfully", listings)
}
