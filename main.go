package main

import "teamhub/internal/app"

// @title           TeamHub API
// @version         1.0
// @description     Team collaboration backend: projects, sprints, boards, tasks, chat.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
