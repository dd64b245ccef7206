// Package hardware decides whether this machine has the keyboard backlight node the
// sysfs sink drives.
package hardware

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	productNamePath = "sys/class/dmi/id/product_name"
	sysVendorPath   = "sys/class/dmi/id/sys_vendor"
)

var ErrUnsupported = errors.New("this application only works on Avell notebooks or Avell Storm 450r")

var (
	supportedProducts = []string{"avell", "storm 450r"}
	supportedVendors  = []string{"avell"}
)

// Probe inspects a filesystem rooted at Root ("/" on a live system).
type Probe struct {
	Root       string
	DevicePath string
}

type Report struct {
	ProductName    string
	Vendor         string
	DevicePresent  bool
	DeviceWritable bool
	SupportedModel bool
}

// Supported mirrors the startup gate: the LED node exists and DMI names a known model.
func (r Report) Supported() bool {
	return r.DevicePresent && r.SupportedModel
}

func (p Probe) Run() Report {
	device := p.path(p.DevicePath)

	var r Report
	if _, err := os.Stat(device); err == nil {
		r.DevicePresent = true
		r.DeviceWritable = writable(device)
	}

	r.ProductName = readLower(p.path(productNamePath))
	r.Vendor = readLower(p.path(sysVendorPath))
	r.SupportedModel = containsAny(r.ProductName, supportedProducts) || containsAny(r.Vendor, supportedVendors)

	return r
}

func (p Probe) path(rel string) string {
	root := p.Root
	if root == "" {
		root = "/"
	}
	return filepath.Join(root, strings.TrimPrefix(rel, "/"))
}

func readLower(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(string(data)))
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
