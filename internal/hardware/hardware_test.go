package hardware

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledPath = "/sys/class/leds/rgb:kbd_backlight/multi_intensity"

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name      string
		device    bool
		product   string
		vendor    string
		supported bool
	}{
		{"avell product", true, "Avell A52 ION\n", "", true},
		{"storm product", true, "STORM 450R", "Other Corp", true},
		{"avell vendor", true, "A70 MOB", "  AVELL  \n", true},
		{"unknown model", true, "ThinkPad X1", "LENOVO", false},
		{"no led node", false, "Avell A52", "Avell", false},
		{"nothing", false, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.device {
				writeFile(t, root, ledPath, "0 0 0")
			}
			if tt.product != "" {
				writeFile(t, root, productNamePath, tt.product)
			}
			if tt.vendor != "" {
				writeFile(t, root, sysVendorPath, tt.vendor)
			}

			r := Probe{Root: root, DevicePath: ledPath}.Run()
			assert.Equal(t, tt.supported, r.Supported())
			assert.Equal(t, tt.device, r.DevicePresent)
			assert.Equal(t, tt.device, r.DeviceWritable)
		})
	}
}

func TestProbeLowercasesNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, productNamePath, " Avell Storm 450R \n")

	r := Probe{Root: root, DevicePath: ledPath}.Run()
	assert.Equal(t, "avell storm 450r", r.ProductName)
	assert.True(t, r.SupportedModel)
	assert.False(t, r.Supported())
}
