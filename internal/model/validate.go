package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// parameterRules is the shape every parameter must satisfy regardless of its
// current value.
type parameterRules struct {
	Type    string   `validate:"oneof=string int float bool color dropdown"`
	Options []string `validate:"required_if=Type dropdown,dive,required"`
}

var validate = validator.New()

// Validate checks a parameter's type, options, range and stored value and
// default. It returns nil or an error wrapping one of the package sentinels.
func (p *Parameter) Validate() error {
	k := p.Type()
	rules := parameterRules{Type: string(k)}
	if opts := p.Options(); len(opts) > 0 {
		rules.Options = opts
	}
	if err := validate.Struct(rules); err != nil {
		return rulesError(k, err)
	}

	var errs []error
	for _, field := range []string{FieldValue, FieldDefault} {
		raw, ok := p.Field(field)
		if !ok || string(raw) == "null" {
			continue
		}
		v, err := decodeRaw(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
			continue
		}
		if _, err := p.check(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	return errors.Join(errs...)
}

func rulesError(k Kind, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Field() == "Type":
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownParameterType, string(k)))
		case fe.Tag() == "required_if":
			errs = append(errs, ErrMissingOptions)
		default:
			errs = append(errs, fmt.Errorf("%w: empty option", ErrNotAnOption))
		}
	}
	return errors.Join(errs...)
}

// Validate checks every parameter of every section in b and returns all
// problems joined, each wrapped in a *ParamError. A section or parameter
// entry that is null or not an object is reported as ErrNotAnObject.
//
// Example:
//
//	if err := model.Validate(block); errors.Is(err, model.ErrUnknownParameterType) {
//	    // at least one parameter cannot be edited
//	}
func Validate(b *Block) error {
	var errs []error
	for _, sectionName := range b.Names() {
		section, ok := b.Section(sectionName)
		if !ok {
			errs = append(errs, &ParamError{Section: sectionName, Err: fmt.Errorf("%w: section", ErrNotAnObject)})
			continue
		}
		for _, name := range section.Names() {
			p, ok := section.Parameter(name)
			if !ok {
				errs = append(errs, &ParamError{Section: sectionName, Name: name, Err: fmt.Errorf("%w: parameter", ErrNotAnObject)})
				continue
			}
			if err := p.Validate(); err != nil {
				errs = append(errs, &ParamError{Section: sectionName, Name: name, Err: err})
			}
		}
	}
	return errors.Join(errs...)
}
