package main

import (
	"context"
	"time"

	"github.com/takonote/verigate/internal/app"
)

// @title           Verigate API
// @version         1.0
// @description     Verigate issues and checks SMS verification codes with per-receiver throttling.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
