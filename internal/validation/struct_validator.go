package validation

import (
	"github.com/go-playground/validator/v10"

	"leagueforecast/internal/config"
)

// NewStructValidator returns a validator with the domain tags registered:
//
//	season  a canonical "YYYY/YYYY" season
func NewStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return config.ValidSeason(fl.Field().String())
	})
	return v
}
