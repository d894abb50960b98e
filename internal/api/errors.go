package api

import (
	"errors"   // Error kind checks
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"reflect"  // Struct tag lookup for field names
	"strings"  // String manipulation
	"sync"     // One-time validator setup

	"library_system/internal/domain" // Typed errors

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin's validator engine
	"github.com/go-playground/validator/v10" // Validation error details
	"github.com/sirupsen/logrus"             // Logging library
)

// msgInternal is the only thing clients learn about unexpected failures
const msgInternal = "Something went wrong!"

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json tag names instead of Go field names
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					return fld.Name
				}
				return name
			})
		}
	})
}

// requiredMessage renders "first_name" as "First_name is required!"
func requiredMessage(field string) string {
	if field == "" {
		return "Field is required!"
	}
	return strings.ToUpper(field[:1]) + strings.ToLower(field[1:]) + " is required!"
}

// bindingError converts a gin binding failure into a ValidationError
func bindingError(err error) *domain.ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ve := &domain.ValidationError{Message: "Missing required fields!", Fields: map[string]string{}}
		for _, fe := range verrs {
			field := fe.Field()
			if fe.Tag() == "required" {
				ve.Fields[field] = requiredMessage(field)
				continue
			}
			ve.Message = "Invalid input!"
			ve.Fields[field] = fmt.Sprintf("%s failed the %s check", field, fe.Tag())
		}
		return ve
	}
	return domain.NewValidationError("body", "Malformed request body")
}

// respondError translates a typed error into its status code at the handler boundary.
// resource names the entity in not-found and conflict messages, e.g. "Book".
func respondError(c *gin.Context, op string, err error, resource string) {
	if ve, ok := domain.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message, "errors": ve.Fields})
		return
	}
	switch {
	case errors.Is(err, domain.ErrCopyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Book copy not found!"})
	case errors.Is(err, domain.ErrCopyUnavailable):
		c.JSON(http.StatusConflict, gin.H{"message": "Book copy is not available!"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": resource + " not found!"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": resource + " already exists!"})
	default:
		// The cause stays server-side
		logrus.WithFields(logrus.Fields{
			"op":         op,
			"request_id": c.GetString("requestID"),
			"error":      err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	}
}
