package main

import (
	"context"
	"log"
	"os"

	"github.com/kotoba-app/kotoba/internal/server"
	"github.com/kotoba-app/kotoba/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.MustLoad(os.Args[1:])

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
