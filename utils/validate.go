package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct istek DTO'sunu doğrular. Hatalar JSON alan adına göre döner.
func ValidateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[jsonName(fe.Field())] = messageFor(fe)
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo é obrigatório"
	case "max":
		return "Valor acima do permitido (" + fe.Param() + ")"
	case "min":
		return "Valor abaixo do permitido (" + fe.Param() + ")"
	case "oneof":
		return "Valor inválido; use um de: " + fe.Param()
	default:
		return "Valor inválido"
	}
}

// Bind gövdeyi dst'ye çözer ve doğrular. ok=false ise cevap yazılmıştır;
// handler dönen hatayı aynen döndürmelidir.
func Bind(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, ErrorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if errs := ValidateStruct(dst); errs != nil {
		return false, ValidationJSON(c, errs)
	}
	return true, nil
}
