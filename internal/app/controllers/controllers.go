// Package controllers handles HTTP request handling
package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/universe/internal/middleware"
	"github.com/yigit/universe/internal/pkg/validation"
)

// RegisterValidators installs the custom binding tags on gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validation.RegisterRules(v)
}

// bind decodes the request body or form into obj and answers 400 on failure
func bind(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBind(obj); err != nil {
		middleware.HandleBindingError(ctx, err)
		return false
	}
	return true
}

// bindQuery decodes the query string into obj and answers 400 on failure
func bindQuery(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindQuery(obj); err != nil {
		middleware.HandleBindingError(ctx, err)
		return false
	}
	return true
}
