package http

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reportes-api/internal/domain"
)

// validate instancia compartida; los errores usan el nombre JSON (o query) del campo.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct devuelve ErrInvalidInput con el primer campo inválido.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.FieldError{Field: fe.Field(), Err: fmt.Errorf("%w: %s no cumple %q", domain.ErrInvalidInput, fe.Field(), fe.Tag())}
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

// parseBody decodifica el JSON del cuerpo y valida.
func parseBody(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badBody(c, "cuerpo inválido")
	}
	if err := validateStruct(dst); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}

// parseQuery decodifica la query string y valida.
func parseQuery(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.QueryParser(dst); err != nil {
		return false, writeError(c, fmt.Errorf("%w: parámetros de consulta inválidos", domain.ErrInvalidInput))
	}
	if err := validateStruct(dst); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}
