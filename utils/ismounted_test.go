package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMounts = `sysfs /sys sysfs rw,nosuid,nodev,noexec,relatime 0 0
proc /proc proc rw,nosuid,nodev,noexec,relatime 0 0
/dev/sda1 / ext4 rw,relatime 0 0
nas:/export/media /mnt/media nfs4 rw,relatime,vers=4.2 0 0
/dev/sdb1 /mnt/backup ext4 rw,relatime 0 0
`

func TestScanMounts(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		mounted bool
	}{
		{"nfs mountpoint", "/mnt/media", true},
		{"local mountpoint", "/mnt/backup", true},
		{"root", "/", true},
		{"not mounted", "/mnt/missing", false},
		{"prefix of a mountpoint", "/mnt", false},
		{"device name is not a mountpoint", "/dev/sdb1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mounted, err := scanMounts(strings.NewReader(sampleMounts), tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.mounted, mounted)
		})
	}
}

func TestScanMountsEmpty(t *testing.T) {
	mounted, err := scanMounts(strings.NewReader(""), "/mnt/media")
	require.NoError(t, err)
	assert.False(t, mounted)
}
