// Package renderer public form ve sayfaların HTML çıktısını üretir. Şablonlar
// binary'ye gömülüdür.
package renderer

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"helpdesk.link/configs/configslog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

//go:embed views
var views embed.FS

const (
	LayoutPublic = "layouts/public"
	LayoutError  = "layouts/error"

	ViewFormFill     = "public/form_fill"
	ViewFormPassword = "public/form_password"
	ViewConfirmation = "public/confirmation"
	ViewPage         = "public/page_view"
	ViewError        = "errors/error"
)

// NewEngine gömülü şablonlarla html motorunu kurar.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic("renderer: views alt dizini okunamadı: " + err.Error())
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("lower", strings.ToLower)
	return engine
}

// Render şablonu layout ile çizer. Çizim hatası loglanır ve düz metin 500 döner.
func Render(c *fiber.Ctx, name, layout string, data fiber.Map, status ...int) error {
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	if err := c.Status(code).Render(name, data, layout); err != nil {
		configslog.Log.Error("Şablon çizilemedi", zap.String("view", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Erro ao exibir a página.")
	}
	return nil
}

// RenderError hata sayfası.
func RenderError(c *fiber.Ctx, status int, title, message string) error {
	return Render(c, ViewError, LayoutError, fiber.Map{
		"Title":   title,
		"Message": message,
	}, status)
}
