package controllers

import (
	"net/http"

	"github.com/z-haral/Halal-Checker/services"

	"github.com/gin-gonic/gin"
)

// POST /devices — register a push endpoint for high-risk alerts.
func RegisterDevice(c *gin.Context) {
	uid := c.GetUint("userID")

	if pushSvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications unavailable"})
		return
	}

	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dev, err := pushSvc.RegisterDevice(uid, req.Platform, req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoint_arn": dev.EndpointARN})
}
