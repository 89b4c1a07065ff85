package notifications

import "errors"

var ErrDeliveryFailed = errors.New("notification delivery failed")
