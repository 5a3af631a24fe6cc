package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tourlog/internal/apperr"
	"tourlog/internal/auth"
	"tourlog/internal/model"
)

// Actor identifies the caller on whose behalf a change is made
type Actor struct {
	ID       *uuid.UUID
	Username string
}

// ActorFromClaims builds an Actor from verified token claims
func ActorFromClaims(claims *auth.Claims) Actor {
	if claims == nil {
		return Actor{}
	}
	a := Actor{Username: claims.Username}
	if id, err := uuid.Parse(claims.UserID); err == nil {
		a.ID = &id
	}
	return a
}

// Event names broadcast to live clients
const (
	EventRecordCreated   = "record.created"
	EventRecordUpdated   = "record.updated"
	EventRecordDeleted   = "record.deleted"
	EventImportCompleted = "records.imported"
)

// EventPublisher receives change notifications after they are committed
type EventPublisher interface {
	Publish(event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

type quietKey struct{}

// withoutEvents marks ctx so per-row changes of a batch are not broadcast individually
func withoutEvents(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func eventsSuppressed(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}

func newAuditEntry(actor Actor, action, entityID, entityName string, details interface{}) *model.AuditLog {
	detailsJSON, err := json.Marshal(details)
	if err != nil || details == nil {
		detailsJSON = []byte("{}")
	}
	return &model.AuditLog{
		UserID:     actor.ID,
		Username:   actor.Username,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		return model.Permission(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs struct tag validation and reports failures per field
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}
	details := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperr.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return apperr.Validation("Validation failed", details...)
}

// fieldPath drops the struct name prefix from the namespace, e.g. "permissions[1]"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Param() == "1" && fe.Kind() == reflect.String {
			return fe.Field() + " is required"
		}
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "role":
		return fmt.Sprintf("unknown role '%v'", fe.Value())
	case "permission":
		return fmt.Sprintf("unknown permission '%v'", fe.Value())
	default:
		return fe.Field() + " is invalid"
	}
}

// describe flattens an error into a single human-readable line
func describe(err error) string {
	ae := apperr.As(err)
	if ae == nil {
		return apperr.Internal(err).Message
	}
	if len(ae.Details) == 0 {
		return ae.Message
	}
	parts := make([]string, 0, len(ae.Details))
	for _, d := range ae.Details {
		parts = append(parts, d.Message)
	}
	return ae.Message + ": " + strings.Join(parts, "; ")
}

var dateLayouts = []string{model.DateLayout, time.RFC3339, "2006/01/02", "02/01/2006"}

// parseDate accepts the calendar formats operators actually type
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseID(id, resource string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.NotFound(resource)
	}
	return parsed, nil
}
