package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalab/vitashop-backend/internal/requestdata"
	"github.com/vitalab/vitashop-backend/internal/services"
	"github.com/vitalab/vitashop-backend/internal/types"
)

type SurveyHandler struct {
	surveyService services.SurveyService
}

func NewSurveyHandler(surveyService services.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

func (sh *SurveyHandler) SaveSurvey(c *gin.Context) {
	var survey types.SurveyData
	if err := c.ShouldBindJSON(&survey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	user, err := sh.surveyService.SaveSurvey(c.Request.Context(), rd.UserID, survey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, user)
}

func (sh *SurveyHandler) GetSurvey(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	survey, completed, err := sh.surveyService.GetSurvey(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "survey_load_failed", err)
		return
	}
	if !completed {
		RespondOK(c, gin.H{"completed": false})
		return
	}
	RespondOK(c, gin.H{"completed": true, "survey": survey})
}
