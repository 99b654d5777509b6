package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/veritasedu/veritas/internal/app/models"
)

// RegisterCustomValidators wires the enum validations used by the request
// DTO binding tags into gin's validator engine.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("subject", func(fl validator.FieldLevel) bool {
		return models.ValidSubject(models.Subject(fl.Field().String()))
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("bimester", func(fl validator.FieldLevel) bool {
		return models.ValidBimester(models.Bimester(fl.Field().String()))
	}); err != nil {
		return err
	}

	return v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		switch models.Difficulty(fl.Field().String()) {
		case models.DifficultyEnsinoMedio, models.DifficultyPreVestibular, models.DifficultyNivelSuperior:
			return true
		}
		return false
	})
}
