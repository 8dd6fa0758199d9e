package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/viant/tatrec/vector"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: invalid: %w", err)
	}
	if _, err := c.Distance(); err != nil {
		return fmt.Errorf("config: recommend.distance: %w", err)
	}
	if c.Index.ProbeRadius > c.Index.HashSize {
		return fmt.Errorf("config: index.probe_radius %d exceeds index.hash_size %d", c.Index.ProbeRadius, c.Index.HashSize)
	}
	if c.Model.ImageSize%4 != 0 {
		return fmt.Errorf("config: model.image_size %d must be a multiple of 4", c.Model.ImageSize)
	}
	if c.Index.Backend == "badger" && c.Index.BadgerDir == "" {
		return errors.New("config: index.badger_dir is required for the badger backend")
	}
	if c.Index.Kind == "brute" {
		if d, _ := c.Distance(); d == vector.Hamming {
			return errors.New("config: hamming distance needs an lsh index")
		}
	}
	return nil
}

// Distance parses recommend.distance.
func (c *Config) Distance() (vector.Distance, error) {
	return vector.ParseDistance(c.Recommend.Distance)
}
