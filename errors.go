package cachekv

import (
	"errors"
)

// ErrNoClearMethod is returned by New when the supplied cache implements
// neither cache.Clearer nor cache.Flusher. The decorator needs one clearing
// primitive to implement Clear.
var ErrNoClearMethod = errors.New("cachekv: cache supports neither ClearAll nor FlushAll")
