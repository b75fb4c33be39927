package main

import (
	"context"

	"github.com/shandysiswandi/swivel/internal/app"
)

// @title           Swivel API
// @version         1.0
// @description     Swivel verifies one-time codes against a Swivel authentication server as a second factor.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()
	application.Stop(ctx)
}
