package validation

import ozzo "github.com/go-ozzo/ozzo-validation"

const HoaxContentSize = "hoax_content_size"

// HoaxContent requires 10 to 5000 characters.
func HoaxContent(content string) Errors {
	var errs Errors
	err := ozzo.Validate(content,
		ozzo.Required.Error(HoaxContentSize),
		ozzo.RuneLength(10, 5000).Error(HoaxContentSize),
	)
	return collect(errs, FieldContent, err)
}
