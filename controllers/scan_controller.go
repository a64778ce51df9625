package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/z-haral/Halal-Checker/services"
	"github.com/z-haral/Halal-Checker/utils"

	"github.com/gin-gonic/gin"
)

type AnalyzeInput struct {
	IngredientsText string `json:"ingredients_text" binding:"required"`
}

// POST /scan/analyze  { "ingredients_text": "Sugar, Gelatin, ..." }
func AnalyzeText(c *gin.Context) {
	uid := c.GetUint("userID")

	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := scanSvc.Analyze(uid, input.IngredientsText)
	if err != nil {
		if errors.Is(err, services.ErrScanInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hub.BroadcastEvent(uid, services.ScanEvent{
		Type:        "scan_complete",
		HighestRisk: string(result.HighestRisk),
		Findings:    len(result.Findings),
	})

	c.JSON(http.StatusOK, result)
}

type AnalyzeImageInput struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /scan/image  { "image_base64": "data:image/jpeg;base64,..." }
func AnalyzeImage(c *gin.Context) {
	uid := c.GetUint("userID")

	var input AnalyzeImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	// Archive first so flagged labels can be audited; losing the copy is
	// not a reason to fail the scan.
	if _, err := utils.ArchiveLabelImage(input.ImageBase64, uid); err != nil {
		log.Printf("label archive failed for user %d: %v", uid, err)
	}

	result, err := scanSvc.AnalyzeImage(c.Request.Context(), uid, input.ImageBase64)
	if err != nil {
		if errors.Is(err, services.ErrScanInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	hub.BroadcastEvent(uid, services.ScanEvent{
		Type:        "scan_complete",
		HighestRisk: string(result.HighestRisk),
		Findings:    len(result.Findings),
	})

	c.JSON(http.StatusOK, result)
}

// GET /scan/result — the retained result of the last successful analyze.
func GetScanResult(c *gin.Context) {
	uid := c.GetUint("userID")

	result := scanSvc.Session(uid).Result()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis result"})
		return
	}
	c.JSON(http.StatusOK, result)
}
