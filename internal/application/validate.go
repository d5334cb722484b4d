package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"produce-inspector/internal/domain/entity"
)

const maxHue = 180

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// paramsValidator возвращает общий валидатор с тегом odd для размеров ядер.
func paramsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("odd", func(fl validator.FieldLevel) bool {
			return fl.Field().Int()%2 == 1
		})
	})
	return validate
}

// ValidateParams проверяет параметры прогона до обработки.
func ValidateParams(params entity.PipelineParams) error {
	if err := paramsValidator().Struct(params); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s=%v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: malformed parameters: %s", entity.ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	cr := params.Segment.ColorRange
	for i := 0; i < 3; i++ {
		if cr.Lower[i] > cr.Upper[i] {
			return fmt.Errorf("%w: color range channel %d lower %v exceeds upper %v",
				entity.ErrInvalidInput, i, cr.Lower[i], cr.Upper[i])
		}
	}
	if cr.Upper[0] > maxHue {
		return fmt.Errorf("%w: hue upper bound %v exceeds %d", entity.ErrInvalidInput, cr.Upper[0], maxHue)
	}

	return nil
}
