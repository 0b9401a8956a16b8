package config

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var (
	// Shared dependencies used across the application
	Validate = validator.New()
	Ctx      = context.Background()
)
