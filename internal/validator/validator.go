// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/money"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Decimals are validated through their string form so that money tags
		// see the exact value the client sent.
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("money", validateMoney)
		_ = v.RegisterValidation("money_nonneg", validateMoneyNonNegative)
		_ = v.RegisterValidation("wallet_type", validateWalletType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("letters", validateLetters)
		_ = v.RegisterValidation("passport", validatePassport)
		_ = v.RegisterValidation("adult_dob", validateAdultDOB)
		_ = v.RegisterValidation("future_date", validateFutureDate)
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validateMoney accepts strictly positive amounts that fit NUMERIC(10,2).
func validateMoney(fl validator.FieldLevel) bool {
	d, ok := money.Parse(fl.Field().String())
	return ok && money.ValidAmount(d)
}

// validateMoneyNonNegative accepts zero or positive amounts that fit NUMERIC(10,2).
func validateMoneyNonNegative(fl validator.FieldLevel) bool {
	d, ok := money.Parse(fl.Field().String())
	return ok && money.ValidBalance(d)
}

func validateWalletType(fl validator.FieldLevel) bool {
	return models.WalletType(fl.Field().String()).Valid()
}

func validateCategoryType(fl validator.FieldLevel) bool {
	return models.CategoryType(fl.Field().String()).Valid()
}

func validateLetters(fl validator.FieldLevel) bool {
	return IsLetters(fl.Field().String())
}

func validatePassport(fl validator.FieldLevel) bool {
	return IsPassport(fl.Field().String())
}

// validateAdultDOB accepts a YYYY-MM-DD date of birth of someone at least AdultAge old.
func validateAdultDOB(fl validator.FieldLevel) bool {
	dob, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil && IsAdult(dob, time.Now())
}

// validateFutureDate accepts a YYYY-MM-DD date after today.
func validateFutureDate(fl validator.FieldLevel) bool {
	d, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil && IsFutureDate(d, time.Now())
}
