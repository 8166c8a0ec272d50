package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// newValidator reports fields by their JSON names and treats a zero
// openapi_types.Date as absent, so `required` works on date fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(openapi_types.Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time
	}, openapi_types.Date{})
	return v
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// decode reads a JSON body into dst and validates it. On failure it writes
// the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		case errors.Is(err, io.EOF):
			requestError(w, "request body is required")
		default:
			requestError(w, "request body is not valid JSON")
		}
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		requestError(w, validationMessage(err))
		return false
	}
	return true
}

// pathID binds the {id} path parameter.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		requestError(w, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// bindQuery binds an optional query parameter. dest must be a pointer to a
// pointer, left nil when the parameter is absent.
func bindQuery(w http.ResponseWriter, q url.Values, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		requestError(w, fmt.Sprintf("invalid %s parameter", name))
		return false
	}
	return true
}

// bindRange reads ?start=&end=. Both must be given together; when neither is
// given the result is nil, or an error response if required is set.
func bindRange(w http.ResponseWriter, r *http.Request, required bool) (*domain.DateRange, bool) {
	q := r.URL.Query()
	var start, end *openapi_types.Date
	if !bindQuery(w, q, "start", &start) || !bindQuery(w, q, "end", &end) {
		return nil, false
	}
	if start == nil && end == nil {
		if required {
			requestError(w, "start and end are required")
			return nil, false
		}
		return nil, true
	}
	if start == nil || end == nil {
		requestError(w, "start and end must be given together")
		return nil, false
	}
	rng, err := domain.NewDateRange(start.Time, end.Time)
	if err != nil {
		requestError(w, unwrapMessage(err))
		return nil, false
	}
	return &rng, true
}

// bindDay reads an optional date parameter, defaulting to today.
func (s *Server) bindDay(w http.ResponseWriter, r *http.Request, name string) (openapi_types.Date, bool) {
	var d *openapi_types.Date
	if !bindQuery(w, r.URL.Query(), name, &d) {
		return openapi_types.Date{}, false
	}
	if d == nil {
		return openapi_types.Date{Time: s.today()}, true
	}
	return *d, true
}
