package core

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

const (
	dashboardWarnLeverage   = 1.8 // the page only asks for action above this
	dashboardRefreshSeconds = 10
)

type dashboardData struct {
	AppName        string
	Symbol         string
	SpotAsset      string
	TargetLeverage float64
	WarnLeverage   float64
	RefreshSeconds int
}

func SetupFiberApp(universe *Universe) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               universe.Config.Server.AppName,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": universe.Monitor.Health()})
	})

	app.Get("/api/status", func(c *fiber.Ctx) error {
		return c.JSON(universe.Monitor.Status(c.UserContext()).Body())
	})

	app.Get("/", func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		err := dashboardTmpl.Execute(&buf, dashboardData{
			AppName:        universe.Config.Server.AppName,
			Symbol:         universe.Monitor.Symbol(),
			SpotAsset:      universe.Config.Monitor.SpotAsset,
			TargetLeverage: universe.Monitor.TargetLeverage().InexactFloat64(),
			WarnLeverage:   dashboardWarnLeverage,
			RefreshSeconds: dashboardRefreshSeconds,
		})
		if err != nil {
			log.Errorf("fail to render dashboard: %v", err)
			return fiber.ErrInternalServerError
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	return app
}

func ShutdownFiberApp(app *fiber.App) {
	if err := app.Shutdown(); err != nil {
		log.Warnf("fail to shutdown fiber app: %v", err)
	}
}
