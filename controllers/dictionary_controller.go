package controllers

import (
	"net/http"

	"github.com/z-haral/Halal-Checker/models"

	"github.com/gin-gonic/gin"
)

// GET /dictionary
func ListDictionary(c *gin.Context) {
	dict := dictSvc.Current()
	c.JSON(http.StatusOK, gin.H{
		"count":   dict.Len(),
		"entries": dict.Entries(),
	})
}

type DictionaryEntryInput struct {
	Name        string           `json:"name" binding:"required"`
	RiskLevel   models.RiskLevel `json:"risk_level" binding:"required"`
	Explanation string           `json:"explanation"`
}

// POST /admin/dictionary
func UpsertDictionaryEntry(c *gin.Context) {
	var input DictionaryEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := dictSvc.UpsertEntry(input.Name, input.RiskLevel, input.Explanation)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// POST /admin/dictionary/refresh
func RefreshDictionary(c *gin.Context) {
	dict, err := dictSvc.Refresh()
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": dict.Len()})
}
