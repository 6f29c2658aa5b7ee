package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	badSchedule := filepath.Join(dir, "bad_schedule.toml")
	require.NoError(t, os.WriteFile(badSchedule, []byte(`
[rembg]
backend = "matte"

[stats]
enabled = true
schedule = "every now and then"

[log]
level = "error"
`), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"配置文件不存在", filepath.Join(dir, "missing.toml"), "read config"},
		{"统计调度表达式错误", badSchedule, "schedule stats report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
