package user

import "errors"

// ErrUnknownDriver is returned for an unsupported RepositoryConfig.Driver.
var ErrUnknownDriver = errors.New("unknown user repository driver")
