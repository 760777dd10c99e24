package geo

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/yl2chen/cidranger"
)

type labelledNetwork struct {
	network net.IPNet
	label   string
}

func (n labelledNetwork) Network() net.IPNet { return n.network }

// NetworkLabels maps IPs inside configured CIDR ranges to fixed labels, for
// example "10.0.0.0/8" to "internal". The most specific network wins.
type NetworkLabels struct {
	ranger cidranger.Ranger
	size   int
}

// NewNetworkLabels builds a label table from CIDR → label pairs.
func NewNetworkLabels(labels map[string]string) (*NetworkLabels, error) {
	ranger := cidranger.NewPCTrieRanger()

	// Sorted so duplicate errors are reported deterministically.
	cidrs := make([]string, 0, len(labels))
	for cidr := range labels {
		cidrs = append(cidrs, cidr)
	}
	sort.Strings(cidrs)

	for _, cidr := range cidrs {
		label := strings.TrimSpace(labels[cidr])
		if label == "" {
			return nil, fmt.Errorf("geo: empty label for network %s", cidr)
		}
		_, network, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("geo: network label %q: %w", cidr, err)
		}
		if err := ranger.Insert(labelledNetwork{network: *network, label: label}); err != nil {
			return nil, fmt.Errorf("geo: network label %q: %w", cidr, err)
		}
	}
	return &NetworkLabels{ranger: ranger, size: len(cidrs)}, nil
}

// Len returns the number of configured networks.
func (n *NetworkLabels) Len() int {
	if n == nil {
		return 0
	}
	return n.size
}

// Locate returns the label of the most specific network containing ip.
func (n *NetworkLabels) Locate(ip string) (string, bool) {
	if n == nil || n.size == 0 {
		return "", false
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", false
	}
	entries, err := n.ranger.ContainingNetworks(addr)
	if err != nil || len(entries) == 0 {
		return "", false
	}

	best, bestOnes := "", -1
	for _, entry := range entries {
		ln, ok := entry.(labelledNetwork)
		if !ok {
			continue
		}
		ones, _ := ln.network.Mask.Size()
		if ones > bestOnes {
			best, bestOnes = ln.label, ones
		}
	}
	return best, bestOnes >= 0
}
