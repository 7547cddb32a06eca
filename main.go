package main

import (
	"meetsync/core/logger"
	"meetsync/core/server"
)

// @title MeetSync API
// @version 1.0
// @description Availability aggregation and time-slot ranking for group meeting proposals

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
