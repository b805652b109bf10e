package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalab/vitashop-backend/internal/requestdata"
	"github.com/vitalab/vitashop-backend/internal/services"
)

type ReferralHandler struct {
	referralService services.ReferralService
}

func NewReferralHandler(referralService services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

func (rh *ReferralHandler) GetReferralInfo(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	info, err := rh.referralService.GetReferralInfo(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "referral_info_failed", err)
		return
	}
	RespondOK(c, info)
}

func (rh *ReferralHandler) GetReferrals(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	referrals, err := rh.referralService.GetReferrals(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "referrals_failed", err)
		return
	}
	RespondOK(c, gin.H{"referrals": referrals})
}

func (rh *ReferralHandler) GetPointsHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	history, err := rh.referralService.GetPointsHistory(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "points_history_failed", err)
		return
	}
	RespondOK(c, history)
}

func (rh *ReferralHandler) SpendPoints(c *gin.Context) {
	var req struct {
		Points      int    `json:"points"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := rh.referralService.SpendPoints(c.Request.Context(), rd.UserID, req.Points, req.Description); err != nil {
		if errors.Is(err, services.ErrInsufficientPoints) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{"success": "true"})
}
