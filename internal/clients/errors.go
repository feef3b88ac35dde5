package clients

import (
	"errors"
)

var ErrLoginFailed = errors.New("inventory feed login failed")
var ErrFeedUnavailable = errors.New("inventory feed unavailable")
var ErrEmptyFeed = errors.New("inventory feed returned no endpoints")
