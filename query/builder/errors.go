package builder

import "github.com/satishbabariya/badger-go/query/params"

// Configuration errors returned by Build. They are the params sentinels, so
// errors.Is works against either package.
var (
	ErrInvalidConfiguration      = params.ErrInvalidConfiguration
	ErrParameterTooLong          = params.ErrParameterTooLong
	ErrUnsupportedParameterShape = params.ErrUnsupportedParameterShape
)
