package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

var errInvalidBody = errors.New("cuerpo inválido")

var validate = newValidator()

// newValidator reporta los campos con su nombre JSON.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodifica el body en out y aplica sus etiquetas validate.
// El primer campo inválido se devuelve como domain.FieldError.
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	if first.Tag() == "required" {
		return domain.MissingField(first.Field())
	}
	return domain.InvalidField(first.Field(), domain.ErrInvalidInput)
}

// uuidParams responde 404 si algún parámetro de ruta no es un UUID: un id mal formado no existe.
func uuidParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			if validate.Var(c.Params(name), "uuid") != nil {
				return writeError(c, domain.ErrNotFound)
			}
		}
		return c.Next()
	}
}

// uuidQuery responde 400 si un filtro por id presente en el query string no es un UUID.
func uuidQuery(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			if v := c.Query(name); v != "" && validate.Var(v, "uuid") != nil {
				return writeError(c, domain.InvalidField(name, domain.ErrInvalidInput))
			}
		}
		return c.Next()
	}
}

// page lee limit/offset del query string con los topes por defecto.
func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

// queryTime lee un parámetro RFC 3339 opcional.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.InvalidField(key, domain.ErrInvalidInput)
	}
	return &t, nil
}
