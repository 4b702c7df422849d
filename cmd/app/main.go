package main

import (
	"user-admin/internal/app"
	"user-admin/pkg/config"

	_ "user-admin/docs" // Swagger docs
)

// @title           User Admin API
// @version         1.0
// @description     User and role administration backend: CRUD with soft deletion, pagination, filtering and a verification flow.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
