//go:build js && wasm

// Command web is the ranking page client, compiled with
// GOOS=js GOARCH=wasm and loaded by the page served at /.
package main

import (
	"time"

	"github.com/actuallystonmai/ranking-service/internal/client"
	"github.com/actuallystonmai/ranking-service/internal/controller"
	"github.com/actuallystonmai/ranking-service/internal/page"
	"github.com/actuallystonmai/ranking-service/internal/render"
)

func main() {
	page.OnReady(func() {
		container, err := page.ContainerByID("ranking")
		if err != nil {
			println(err.Error())
			return
		}

		apiBase := page.Global("rankingConfig", "apiBase")
		if apiBase == "" {
			apiBase = page.Origin() + "/api/rankings"
		}

		ctrl := controller.New(
			client.New(apiBase, 15*time.Second),
			render.New(),
			container,
			page.NewCheckboxes(`input[type="checkbox"]`),
			controller.Options{},
			nil,
		)
		ctrl.Start()
		page.OnClick("span.tag-link", func(text string) {
			ctrl.TagClicked(text)
		})
	})

	select {}
}
