package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.Execute(ctx)
}
