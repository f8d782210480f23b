package errors

import "errors"

// Is and As forward to the standard library so callers only import this package.

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

func New(text string) error {
	return errors.New(text)
}
