package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The numeric values are part of the external contract: they are process
// exit codes and alert values.
func TestResultCodes(t *testing.T) {
	assert.Equal(t, 0, int(OK))
	assert.Equal(t, 1, int(NotMounted))
	assert.Equal(t, 2, int(Stale))
	assert.Equal(t, 3, int(CheckDirUnavailable))
	assert.Equal(t, 4, int(WriteFailed))
	assert.Equal(t, 5, int(ConfigMissing))
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "not mounted", NotMounted.String())
	assert.Equal(t, "stale", Stale.String())
	assert.Equal(t, "checkdir unavailable", CheckDirUnavailable.String())
	assert.Equal(t, "write failed", WriteFailed.String())
	assert.Equal(t, "config missing", ConfigMissing.String())
	assert.Equal(t, "unknown", Result(42).String())
}
