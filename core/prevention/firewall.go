// Package prevention implements the firewall capability the detection
// worker invokes on a signature match. Block verdicts are stored in an eBPF
// hash map keyed by IPv4 address. This package only creates and updates
// the map; it loads and attaches no data-plane program, so nothing here
// drops packets. Builds without eBPF privileges (or on non-Linux hosts)
// fall back to a no-op firewall so detection keeps running.
package prevention

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/cilium/ebpf"
	"github.com/sirupsen/logrus"
)

// Verdicts stored in the block map.
const (
	VerdictAllow uint32 = 1
	VerdictBlock uint32 = 2
)

const maxBlockedAddrs = 1024

// Firewall blocks IPv4 addresses via a kernel-shared verdict map.
type Firewall struct {
	iface    string
	blockMap *ebpf.Map
}

// New creates a Firewall for the given interface name, which is used only
// in log messages. When the verdict
// map cannot be created (no CAP_BPF, non-Linux kernel), the firewall
// degrades to a logging no-op rather than failing: prevention must never
// stop detection.
func New(iface string) *Firewall {
	m, err := ebpf.NewMap(&ebpf.MapSpec{
		Name:       "vakthund_blocklist",
		Type:       ebpf.Hash,
		KeySize:    4,
		ValueSize:  4,
		MaxEntries: maxBlockedAddrs,
	})
	if err != nil {
		logrus.Warnf("Firewall on %s running in no-op mode: %v", iface, err)
		return &Firewall{iface: iface}
	}
	return &Firewall{iface: iface, blockMap: m}
}

// BlockIP records a block verdict for an IPv4 address in the verdict map.
// Non-IPv4 addresses are rejected.
func (f *Firewall) BlockIP(addr netip.Addr) error {
	if !addr.Is4() {
		return fmt.Errorf("prevention: %s is not an IPv4 address", addr)
	}
	if f.blockMap == nil {
		logrus.Debugf("No-op firewall: would block %s on %s", addr, f.iface)
		return nil
	}
	key := binary.BigEndian.Uint32(addr.AsSlice())
	if err := f.blockMap.Update(key, VerdictBlock, ebpf.UpdateAny); err != nil {
		return fmt.Errorf("prevention: updating verdict for %s: %w", addr, err)
	}
	return nil
}

// IsBlocked reports whether addr currently has a block verdict. Always
// false in no-op mode.
func (f *Firewall) IsBlocked(addr netip.Addr) bool {
	if f.blockMap == nil || !addr.Is4() {
		return false
	}
	key := binary.BigEndian.Uint32(addr.AsSlice())
	var verdict uint32
	if err := f.blockMap.Lookup(key, &verdict); err != nil {
		return false
	}
	return verdict == VerdictBlock
}

// Close releases the verdict map.
func (f *Firewall) Close() error {
	if f.blockMap == nil {
		return nil
	}
	return f.blockMap.Close()
}
