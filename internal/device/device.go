// Package device reports host conditions that gate background checks.
package device

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// LowBatteryPercent is the charge at or below which a discharging battery
// counts as low.
const LowBatteryPercent = 15

// InterfaceLister returns the host's network interfaces.
type InterfaceLister func(ctx context.Context) (psnet.InterfaceStatList, error)

// Network reports whether the host has a usable network interface.
type Network struct {
	list InterfaceLister
}

// NewNetwork creates a Network probe backed by gopsutil.
func NewNetwork() *Network {
	return &Network{list: psnet.InterfacesWithContext}
}

// NewNetworkWithLister creates a Network probe with a custom interface source.
func NewNetworkWithLister(list InterfaceLister) *Network {
	return &Network{list: list}
}

// Name identifies the precondition in logs.
func (n *Network) Name() string { return "network_connected" }

// Met reports whether some non-loopback interface is up and has an address.
// If the interfaces cannot be listed the check passes; the fetch itself will
// surface the failure.
func (n *Network) Met(ctx context.Context) bool {
	ifaces, err := n.list(ctx)
	if err != nil {
		return true
	}
	for _, iface := range ifaces {
		if len(iface.Addrs) == 0 || hasFlag(iface.Flags, "loopback") || !hasFlag(iface.Flags, "up") {
			continue
		}
		return true
	}
	return false
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

// Battery reports whether the host battery is low, using the Linux
// power_supply sysfs class.
type Battery struct {
	root string
}

// NewBattery creates a Battery probe reading /sys/class/power_supply.
func NewBattery() *Battery {
	return &Battery{root: "/sys/class/power_supply"}
}

// NewBatteryAt creates a Battery probe reading supplies under root.
func NewBatteryAt(root string) *Battery {
	return &Battery{root: root}
}

// Name identifies the precondition in logs.
func (b *Battery) Name() string { return "battery_not_low" }

// Met reports whether no battery is discharging at or below
// LowBatteryPercent. Hosts without a battery always pass.
func (b *Battery) Met(_ context.Context) bool {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return true
	}
	for _, e := range entries {
		dir := filepath.Join(b.root, e.Name())
		if readAttr(dir, "type") != "Battery" {
			continue
		}
		if readAttr(dir, "status") != "Discharging" {
			continue
		}
		capacity, err := strconv.Atoi(readAttr(dir, "capacity"))
		if err != nil {
			continue
		}
		if capacity <= LowBatteryPercent {
			return false
		}
	}
	return true
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
