package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalab/vitashop-backend/internal/requestdata"
	"github.com/vitalab/vitashop-backend/internal/services"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (fh *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	feedback, err := fh.feedbackService.SubmitFeedback(c.Request.Context(), req.Name, req.Email, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrFeedbackRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, feedback)
}

func (fh *FeedbackHandler) ListFeedback(c *gin.Context) {
	status := types.FeedbackStatus(c.Query("status"))
	feedback, err := fh.feedbackService.ListFeedback(c.Request.Context(), status)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_feedback_failed", err)
		return
	}
	RespondOK(c, gin.H{"feedback": feedback})
}

func (fh *FeedbackHandler) RespondFeedback(c *gin.Context) {
	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}
	var req struct {
		Response string `json:"response"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	feedback, err := fh.feedbackService.RespondFeedback(c.Request.Context(), feedbackID, rd.UserID, req.Response)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, feedback)
}

func (fh *FeedbackHandler) UpdateFeedbackStatus(c *gin.Context) {
	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}
	var req struct {
		Status types.FeedbackStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	feedback, err := fh.feedbackService.UpdateStatus(c.Request.Context(), feedbackID, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, feedback)
}
