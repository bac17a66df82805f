// SquareFill viewer: desktop front end for the square placement solver.
//
// Build:
//   go build -o squarefill-view ./cmd/squarefill-view
//
// Using fyne-cross for packaged builds:
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/piwi3910/SquareFill/internal/ui"
)

func main() {
	logx.MustSetup(logx.LogConf{ServiceName: "squarefill-view", Mode: "console", Encoding: "plain"})
	logx.DisableStat()
	defer logx.Close()

	application := app.NewWithID("com.piwi3910.squarefill")
	window := application.NewWindow("SquareFill")

	appUI := ui.NewApp(application, window)
	appUI.ApplyTheme()

	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	if len(os.Args) > 1 {
		appUI.OpenPath(os.Args[1])
	}

	window.ShowAndRun()
}
