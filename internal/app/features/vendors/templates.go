// internal/app/features/vendors/templates.go
package vendors

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "vendors",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
