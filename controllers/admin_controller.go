package controllers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// POST /admin/ingest?category=snacks&page_size=50
func IngestCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}
	// bad values fall back to the default page size
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	stored, err := ingestSvc.IngestCategory(category, pageSize)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "stored": stored})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stored": stored})
}

// POST /admin/newsletter — build and send the weekly high-risk digest.
func SendNewsletter(c *gin.Context) {
	to := c.Query("to")
	if to == "" {
		to = os.Getenv("NEWSLETTER_EMAIL")
	}
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipient configured"})
		return
	}

	count, err := newsletterSvc.SendWeeklyDigest(to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "digest sent", "high_risk_count": count})
}
