package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"user_registry/internal/middleware"
	"user_registry/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes the request body into out. Failed `required` rules are
// reported as missing fields with missingStatus, as is an empty body.
// Malformed JSON is a 400.
func bindJSON(c *gin.Context, out any, missingStatus int) bool {
	err := c.ShouldBindJSON(out)
	if err == nil {
		return true
	}

	if errors.Is(err, io.EOF) {
		respondMissing(c, missingStatus, nil)
		return false
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, jsonFieldName(out, fe.StructField()))
		}
		respondMissing(c, missingStatus, fields)
		return false
	}

	message := "Invalid request body"
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		message = "Invalid JSON syntax"
	case errors.As(err, &typeError):
		message = "Field " + typeError.Field + " must be of type " + typeError.Type.String()
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorBody{
		Message:   message,
		Code:      "invalid_request",
		RequestID: middleware.RequestIDFromContext(c),
	})
	return false
}

func respondMissing(c *gin.Context, status int, fields []string) {
	_, code, message := middleware.Classify(service.ErrMissingFields)
	c.AbortWithStatusJSON(status, middleware.ErrorBody{
		Message:   message,
		Code:      code,
		RequestID: middleware.RequestIDFromContext(c),
		Fields:    fields,
	})
}

func jsonFieldName(out any, structField string) string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}

	sf, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return structField
	}
	return name
}
