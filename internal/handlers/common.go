package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yurikawa/task-tracker-api/internal/errors"
)

// FieldError describes a single violated constraint in a request body.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// bindJSON binds the request body into req and, on failure, writes a
// 400 response carrying the list of violated constraints. Returns
// false when the request has already been answered.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, len(verrs))
		for i, fe := range verrs {
			details[i] = FieldError{
				Field: fe.Field(),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			}
		}
		apierrors.BadRequestWithDetails(c, "Validation failed", details)
		return false
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}
