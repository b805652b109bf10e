package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalab/vitashop-backend/internal/requestdata"
	"github.com/vitalab/vitashop-backend/internal/services"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// GetRecommendations serves the rule-matching strategy, ordered by urgency.
func (rh *RecommendationHandler) GetRecommendations(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	recommendations, err := rh.recommendationService.GetRecommendations(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "recommendations_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recommendations})
}

// GetEnhancedRecommendations serves the weighted scoring strategy with the
// analysis report.
func (rh *RecommendationHandler) GetEnhancedRecommendations(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	result, err := rh.recommendationService.GetEnhancedRecommendations(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "recommendations_failed", err)
		return
	}
	RespondOK(c, result)
}

func (rh *RecommendationHandler) GetFullRecommendations(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	full, err := rh.recommendationService.GetFullRecommendations(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "recommendations_failed", err)
		return
	}
	RespondOK(c, full)
}
