package providers

import (
	"errors"
	"io/fs"

	"github.com/gookit/validate"

	"cpd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	errs := validate.Errors{}
	v := validate.Struct(cv.conf)
	v.StopOnError = false
	if !v.Validate() {
		errs = v.Errors
	}
	cv.validateStorage(errs)
	if errs.Empty() {
		return nil
	}
	return errs
}

// validateStorage checks the fields each storage driver needs.
func (cv *CnfValidator) validateStorage(errs validate.Errors) {
	s := cv.conf.Storage
	switch s.Driver {
	case "file":
		if s.FilePath == "" {
			errs.Add("Storage.FilePath", "required", "storage.filePath is required for the file driver")
		}
	case "redis":
		if s.RedisURL == "" {
			errs.Add("Storage.RedisURL", "required", "storage.redisURL is required for the redis driver")
		}
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
