package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZabbix(t *testing.T) {
	sink, err := NewZabbix("zabbix.internal:10051")
	require.NoError(t, err)
	assert.Equal(t, "zabbix.internal", sink.host)
	assert.Equal(t, 10051, sink.port)
}

func TestNewZabbixRejectsBadAddress(t *testing.T) {
	for _, address := range []string{"", "no-port", "host:notanumber"} {
		_, err := NewZabbix(address)
		assert.Error(t, err, "address %q", address)
	}
}

func TestNopDiscards(t *testing.T) {
	assert.NoError(t, Nop{}.Send("web1", "mountmon.error", 1))
}
