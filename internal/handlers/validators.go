package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jsmitterc/remesafe/internal/core/domain"
)

// registerCustomValidators installs binding-level validations shared by the
// request DTOs.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Account codes may not collide with the unassigned-leg sentinel.
	_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != domain.ReservedUnassignedCode
	})
}
