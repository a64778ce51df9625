package routes

import (
    "github.com/z-haral/Halal-Checker/controllers"
    "github.com/z-haral/Halal-Checker/middlewares"

    "github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
    r := gin.Default()

    // Public auth routes
    auth := r.Group("/auth")
    {
        auth.POST("/register", controllers.Register)
        auth.POST("/login", controllers.Login)
    }

    // Protected routes
    api := r.Group("/")
    api.Use(middlewares.AuthMiddleware())
    {
        api.GET("/user/profile", controllers.GetProfile)

        api.GET("/dictionary", controllers.ListDictionary)

        api.POST("/scan/analyze", controllers.AnalyzeText)
        api.POST("/scan/image", controllers.AnalyzeImage)
        api.GET("/scan/result", controllers.GetScanResult)

        api.POST("/history", controllers.SaveProduct)
        api.GET("/history", controllers.GetHistory)

        api.POST("/devices", controllers.RegisterDevice)
        api.GET("/ws", controllers.EventsWS)

        admin := api.Group("/admin")
        {
            admin.POST("/dictionary", controllers.UpsertDictionaryEntry)
            admin.POST("/dictionary/refresh", controllers.RefreshDictionary)
            admin.POST("/ingest", controllers.IngestCategory)
            admin.POST("/newsletter", controllers.SendNewsletter)
        }
    }

    return r
}
