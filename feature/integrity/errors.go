package integrity

import "errors"

var errNoStorage = errors.New("storage client not configured")
