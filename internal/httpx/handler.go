package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/service"
)

// validate checks request payload shapes. Field names come from json tags so
// error messages match what clients actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler bundles the API endpoints and their dependencies.
type Handler struct {
	orders   *service.OrderService
	catalog  *service.CatalogService
	settings *service.SettingsService
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewHandler creates a Handler over the given services.
func NewHandler(
	orders *service.OrderService,
	catalog *service.CatalogService,
	settings *service.SettingsService,
	accounts *service.AccountService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		orders:   orders,
		catalog:  catalog,
		settings: settings,
		accounts: accounts,
		logger:   logger,
	}
}

// checkPayload validates a decoded request struct and converts the first
// violation into an EINVALID domain error.
func checkPayload(op string, payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return domain.Invalidf(op, "%s is required", fe.Field())
		case "oneof":
			return domain.Invalidf(op, "%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
		case "max":
			return domain.Invalidf(op, "%s must be at most %s characters", fe.Field(), fe.Param())
		case "min":
			return domain.Invalidf(op, "%s must be at least %s characters", fe.Field(), fe.Param())
		default:
			return domain.Invalidf(op, "%s is invalid", fe.Field())
		}
	}
	return domain.Invalid(op, "invalid payload")
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("request.id", "invalid id")
	}
	return id, nil
}

// adminIDQuery parses the admin_id query parameter of public endpoints.
func adminIDQuery(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get("admin_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("request.admin_id", "admin_id query parameter is required")
	}
	return id, nil
}
