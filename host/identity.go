package host

import (
	"sync"

	"github.com/google/uuid"
)

// ProcessInstanceID returns the host instance identifier for this process.
// It is generated on first use and stays the same until the process exits,
// so every host created in the process reports one logical identity.
var ProcessInstanceID = sync.OnceValue(uuid.New)
