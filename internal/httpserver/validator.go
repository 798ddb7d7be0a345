package httpserver

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	authmw "github.com/Skotchmaster/sweet_shop/internal/middleware/auth"
	"github.com/Skotchmaster/sweet_shop/internal/service"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

// Validator plugs go-playground/validator into echo. Failures come back as
// *domain.ValidationError keyed by JSON field path, e.g. "items[0].productId".
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	ve := &domain.ValidationError{}
	for _, fe := range fields {
		ve.Add(fieldPath(fe), describe(fe))
	}
	return ve
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return "must be " + bound + " " + fe.Param() + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return "must have " + bound + " " + fe.Param() + " items"
		default:
			return "must be " + bound + " " + fe.Param()
		}
	}
	return "failed " + fe.Tag() + " check"
}

// bind decodes the request into req and runs the validator.
func bind(c echo.Context, l zerolog.Logger, op string, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest(l, op, "invalid body", err)
	}
	if err := c.Validate(req); err != nil {
		return fail(l, op, err)
	}
	return nil
}

func paramID(c echo.Context, l zerolog.Logger, op, name string) (uint, error) {
	id, err := util.ParseID(c.Param(name))
	if err != nil {
		return 0, badRequest(l, op, name+" must be a positive integer", err)
	}
	return id, nil
}

func actor(c echo.Context) service.Actor {
	id, _ := authmw.UserID(c)
	return service.Actor{UserID: id, Role: authmw.Role(c)}
}

// staff reports whether the caller, if any, is staff. Public routes use it
// to decide whether inactive records are visible.
func staff(c echo.Context) bool {
	return authmw.Role(c).IsStaff()
}
