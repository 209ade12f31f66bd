package controllers

import "errors"

var (
	errBusinessExists  = errors.New("you already registered a business")
	errSaveFailed      = errors.New("could not save changes")
	errAlreadyFeatured = errors.New("business is already featured")
	errAlreadyApplied  = errors.New("a feature application is already pending")
	errAlreadyReviewed = errors.New("application was already reviewed")
	errInvalidStep     = errors.New("unknown onboarding step")
)

func errMissingField(field string) error {
	return errors.New("missing field " + field)
}
