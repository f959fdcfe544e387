package dto

import (
	"fmt"
	"sync"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the ledger's custom tags to gin's binding validator.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("accountnumber", func(fl validator.FieldLevel) bool {
			return domain.IsAccountNumber(fl.Field().String())
		}); err != nil {
			registerErr = fmt.Errorf("register 'accountnumber' validator: %w", err)
		}
	})
	return registerErr
}
