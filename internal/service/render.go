// internal/service/render.go
package service

import (
	"strings"

	"github.com/silversky/partnersms-backend/internal/model"
)

// Recognized template variables. Anything else inside {{...}} is left
// verbatim so operators can type literal double-brace text.
var recognizedVars = []string{"first_name", "name", "company", "region", "tsd"}

// Render substitutes the recognized {{variable}} placeholders with the
// partner's fields. Unset fields render as empty strings. Pure textual
// substitution, no side effects.
func Render(template string, p model.Partner) string {
	message := template
	message = strings.ReplaceAll(message, "{{first_name}}", p.FirstName)
	message = strings.ReplaceAll(message, "{{name}}", p.FullName())
	message = strings.ReplaceAll(message, "{{company}}", p.Company)
	message = strings.ReplaceAll(message, "{{region}}", p.Region)
	message = strings.ReplaceAll(message, "{{tsd}}", p.TSD)
	return message
}

// TemplateVariables lists the placeholder names Render understands,
// for the compose UI.
func TemplateVariables() []string {
	vars := make([]string, len(recognizedVars))
	copy(vars, recognizedVars)
	return vars
}
