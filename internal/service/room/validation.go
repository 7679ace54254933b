package room

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/togethertime/server/pkg/mediaurl"
)

const (
	maxNameLength    = 32
	maxMessageLength = 2000
)

var RoomIdRule = []validation.Rule{
	validation.Required,
	validation.Length(1, 64),
	validation.Match(regexp.MustCompile(`^\S+$`)),
}

var ConnectionIdRule = []validation.Rule{
	validation.Required,
}

var NameRule = []validation.Rule{
	validation.RuneLength(0, maxNameLength),
}

var MessageIdRule = []validation.Rule{
	validation.Length(0, 128),
}

var MessageTextRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, maxMessageLength),
}

var PlatformRule = []validation.Rule{
	validation.Required,
	validation.By(func(value any) error {
		p, _ := value.(mediaurl.Platform)
		if !p.Valid() {
			return errors.New("must be one of youtube, vimeo, file, url")
		}
		return nil
	}),
}

// PositionRule accepts a finite, non-negative number of seconds.
var PositionRule = []validation.Rule{
	validation.By(func(value any) error {
		v, _ := value.(float64)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("must be a finite number")
		}
		if v < 0 {
			return errors.New("must be no less than 0")
		}
		return nil
	}),
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
