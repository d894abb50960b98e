package api

import (
	"encoding/json" // JSON body decoding
	"net/http"      // HTTP status codes
	"strconv"       // String conversion
	"strings"       // String manipulation

	"library_system/internal/domain"     // Typed errors
	"library_system/internal/middleware" // Current user lookup

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/gin-gonic/gin/binding" // MIME constants
)

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name + "!"})
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user or answers 401
func currentUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is missing!"})
		return nil, false
	}
	return user, true
}

// formValues collects the submitted fields of a JSON object, urlencoded or multipart form.
// Only keys present in the request appear in the result, which drives partial updates.
func formValues(c *gin.Context, maxMemory int64) (map[string]string, error) {
	values := map[string]string{}
	switch ct := c.ContentType(); {
	case ct == binding.MIMEJSON:
		var raw map[string]any
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, domain.NewValidationError("body", "Malformed request body")
		}
		for k, v := range raw {
			values[k] = stringify(v)
		}
		return values, nil
	case strings.HasPrefix(ct, "multipart/"):
		if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
			return nil, domain.NewValidationError("body", "Malformed multipart form")
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, domain.NewValidationError("body", "Malformed form")
		}
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	return values, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// pagination reads page and page_size, defaulting to 1 and 20 with page_size capped at 100
func pagination(c *gin.Context) (int, int) {
	page := 1      // Default page number
	pageSize := 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size within limits
		}
	}
	return page, pageSize
}

// totalPages rounds total/pageSize up
func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}
