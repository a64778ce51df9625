package controllers

import (
	"errors"
	"net/http"

	"github.com/z-haral/Halal-Checker/models"
	"github.com/z-haral/Halal-Checker/services"

	"github.com/gin-gonic/gin"
)

type SaveInput struct {
	ProductName string `json:"product_name"`
}

// POST /history  { "product_name": "Haribo Goldbears" }
// Saves the session's retained scan result under the given product name.
func SaveProduct(c *gin.Context) {
	uid := c.GetUint("userID")

	var input SaveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := scanSvc.Session(uid)
	if err := sess.BeginSave(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	defer sess.EndSave()

	product, err := historySvc.Save(uid, input.ProductName, sess.Result())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNameRequired),
			errors.Is(err, services.ErrNoScanResult):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	hub.BroadcastEvent(uid, services.ScanEvent{
		Type:        "product_saved",
		ProductName: product.Name,
		HighestRisk: string(product.RiskLevel),
	})
	if product.RiskLevel == models.RiskHigh && pushSvc != nil {
		pushSvc.NotifyHighRisk(uid, product)
	}

	c.JSON(http.StatusCreated, product)
}

// GET /history — the user's saved products, newest first.
func GetHistory(c *gin.Context) {
	uid := c.GetUint("userID")

	entries, err := historySvc.ListHistory(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
