package main

import (
    "github.com/z-haral/Halal-Checker/config"
    "github.com/z-haral/Halal-Checker/controllers"
    "github.com/z-haral/Halal-Checker/routes"
    "github.com/z-haral/Halal-Checker/utils"
)

func main() {
    config.InitDB()
    utils.InitS3()
    controllers.InitServices(config.DB)
    r := routes.SetupRouter()
    r.Run(":8080")
}
