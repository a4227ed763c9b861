package main

import (
	"go.uber.org/fx"

	"github.com/karavan-market/karavan/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
