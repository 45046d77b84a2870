package delivery

import (
	"net/http"
	"skincare_service/internal/domain"
	"skincare_service/internal/usecase"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SkinHandler struct {
	issueUseCase          usecase.SkinIssueUseCase
	analysisUseCase       usecase.AnalysisUseCase
	recommendationUseCase usecase.RecommendationUseCase
	log                   *logrus.Logger
}

func NewSkinHandler(iuc usecase.SkinIssueUseCase, auc usecase.AnalysisUseCase, ruc usecase.RecommendationUseCase, logger *logrus.Logger) *SkinHandler {
	return &SkinHandler{
		issueUseCase:          iuc,
		analysisUseCase:       auc,
		recommendationUseCase: ruc,
		log:                   logger,
	}
}

func (h *SkinHandler) RegisterRoutes(router gin.IRouter) {
	issues := router.Group("/skin-issues")
	{
		issues.GET("", h.ListSkinIssues)
		issues.GET("/:issue", h.GetSkinIssue)
		issues.GET("/:issue/products", h.GetSkinIssueProducts)
	}
	router.POST("/analysis", h.Analyze)
	router.POST("/analysis/recommendations", h.AnalyzeAndRecommend)
	router.POST("/recommendations", h.Recommend)
}

type analysisRequest struct {
	Scores       map[string]float64 `json:"scores" binding:"required"`
	ProductCount int                `json:"product_count"`
	MinRating    *float64           `json:"min_rating"`
}

type recommendationRequest struct {
	SkinIssues   []domain.SkinIssue `json:"skin_issues" binding:"required"`
	ProductCount int                `json:"product_count"`
	MinRating    *float64           `json:"min_rating"`
}

func (h *SkinHandler) ListSkinIssues(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Skin issues retrieved successfully", h.issueUseCase.ListSkinIssues())
}

func (h *SkinHandler) GetSkinIssue(c *gin.Context) {
	label := c.Param("issue")

	info, err := h.issueUseCase.GetSkinIssue(label)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get skin issue %s: %v", label, err)
		ErrorResponse(c, statusCode, "Failed to retrieve skin issue: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Skin issue retrieved successfully", info)
}

func (h *SkinHandler) GetSkinIssueProducts(c *gin.Context) {
	label := c.Param("issue")
	issue, err := domain.ParseSkinIssue(label)
	if err != nil {
		h.log.Warnf("Invalid skin issue parameter: %s", label)
		ErrorResponse(c, http.StatusBadRequest, "Invalid skin issue: "+err.Error())
		return
	}

	countStr := c.DefaultQuery("product_count", strconv.Itoa(usecase.DefaultProductCount))
	count, err := strconv.Atoi(countStr)
	if err != nil {
		h.log.Warnf("Invalid product_count parameter '%s', using default", countStr)
		count = usecase.DefaultProductCount
	}

	rec, err := h.recommendationUseCase.IssueWithProducts(c.Request.Context(), issue, count)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to get products for skin issue %s: %v", issue, err)
		ErrorResponse(c, statusCode, "Failed to retrieve skin issue products: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Skin issue products retrieved successfully", rec)
}

func (h *SkinHandler) Analyze(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for analysis: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.analysisUseCase.Analyze(req.Scores)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to analyze scores: %v", err)
		ErrorResponse(c, statusCode, "Failed to analyze skin: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Skin analyzed successfully", result)
}

func (h *SkinHandler) AnalyzeAndRecommend(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for analysis recommendations: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.recommendationUseCase.AnalyzeAndRecommend(c.Request.Context(), req.Scores, req.ProductCount, req.MinRating)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to analyze and recommend: %v", err)
		ErrorResponse(c, statusCode, "Failed to recommend products: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Recommendations retrieved successfully", result)
}

func (h *SkinHandler) Recommend(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for recommendations: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	recs, err := h.recommendationUseCase.RecommendMany(c.Request.Context(), req.SkinIssues, req.ProductCount, req.MinRating)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to recommend products for %v: %v", req.SkinIssues, err)
		ErrorResponse(c, statusCode, "Failed to recommend products: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Recommendations retrieved successfully", recs)
}
