package uploads

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/s3drop/internal/common"
)

// test seams
var (
	now = time.Now

	randomSuffix = func() string {
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
)

// StorageKey returns uploads/<unix-millis>-<8 hex>-<name>. Two uploads of the
// same name in the same millisecond still get distinct keys.
func StorageKey(name string) string {
	return fmt.Sprintf("%s%d-%s-%s", common.UploadsPrefix, now().UnixMilli(), randomSuffix(), name)
}
