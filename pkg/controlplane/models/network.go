package models

import (
	"net/netip"
	"strings"
)

// NetworkInterface is a configured network interface.
type NetworkInterface struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Interface   string           `gorm:"size:300;not null" json:"int_interface"`
	Name        string           `gorm:"size:120;not null" json:"int_name"`
	DHCP        bool             `json:"int_dhcp"`
	IPv4Address string           `gorm:"size:42" json:"int_ipv4address,omitempty"`
	IPv4Netmask int              `json:"int_v4netmaskbit,omitempty"`
	IPv6Auto    bool             `json:"int_ipv6auto"`
	IPv6Address string           `gorm:"size:42" json:"int_ipv6address,omitempty"`
	IPv6Netmask int              `json:"int_v6netmaskbit,omitempty"`
	Options     string           `gorm:"size:120" json:"int_options,omitempty"`
	Aliases     []InterfaceAlias `gorm:"foreignKey:InterfaceID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for NetworkInterface.
func (NetworkInterface) TableName() string {
	return "network_interfaces"
}

// IPv4Addresses lists the primary and alias IPv4 addresses in CIDR form.
func (i *NetworkInterface) IPv4Addresses() []string {
	out := []string{}
	if cidr, ok := prefix(i.IPv4Address, i.IPv4Netmask, false); ok {
		out = append(out, cidr)
	}
	for _, a := range i.Aliases {
		if cidr, ok := prefix(a.V4Address, a.V4Netmask, false); ok {
			out = append(out, cidr)
		}
	}
	return out
}

// IPv6Addresses lists the primary and alias IPv6 addresses in CIDR form.
func (i *NetworkInterface) IPv6Addresses() []string {
	out := []string{}
	if cidr, ok := prefix(i.IPv6Address, i.IPv6Netmask, true); ok {
		out = append(out, cidr)
	}
	for _, a := range i.Aliases {
		if cidr, ok := prefix(a.V6Address, a.V6Netmask, true); ok {
			out = append(out, cidr)
		}
	}
	return out
}

// prefix formats addr/bits, skipping empty or unparsable addresses and
// addresses of the wrong family. A missing or out-of-range mask yields the
// bare address.
func prefix(addr string, bits int, v6 bool) (string, bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", false
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil || ip.Is6() != v6 {
		return "", false
	}
	p := netip.PrefixFrom(ip, bits)
	if bits <= 0 || !p.IsValid() {
		return ip.String(), true
	}
	return p.String(), true
}

// InterfaceAlias is an additional address on an interface.
type InterfaceAlias struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	InterfaceID uint   `gorm:"index;not null" json:"-"`
	V4Address   string `gorm:"size:42" json:"alias_v4address,omitempty"`
	V4Netmask   int    `json:"alias_v4netmaskbit,omitempty"`
	V6Address   string `gorm:"size:42" json:"alias_v6address,omitempty"`
	V6Netmask   int    `json:"alias_v6netmaskbit,omitempty"`
}

// TableName returns the table name for InterfaceAlias.
func (InterfaceAlias) TableName() string {
	return "network_aliases"
}

// LAGG protocols.
const (
	LAGGFailover    = "failover"
	LAGGFEC         = "fec"
	LAGGLACP        = "lacp"
	LAGGLoadBalance = "loadbalance"
	LAGGRoundRobin  = "roundrobin"
	LAGGNone        = "none"
)

// LAGGInterface is a link aggregation built on top of an interface.
type LAGGInterface struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	InterfaceID uint             `gorm:"uniqueIndex;not null" json:"-"`
	Interface   NetworkInterface `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Protocol    string           `gorm:"size:120;not null" json:"lagg_protocol"`

	// InterfaceName resolves InterfaceID during inventory import.
	InterfaceName string `gorm:"-" json:"-"`
}

// TableName returns the table name for LAGGInterface.
func (LAGGInterface) TableName() string {
	return "network_lagg_interfaces"
}

// String returns the name of the aggregated interface.
func (l *LAGGInterface) String() string {
	return l.Interface.Interface
}

// LAGGInterfaceMember is a physical NIC enslaved to a LAGG.
type LAGGInterfaceMember struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	LAGGGroupID   uint          `gorm:"column:lagg_group_id;index;not null" json:"-"`
	LAGGGroup     LAGGInterface `gorm:"foreignKey:LAGGGroupID;constraint:OnDelete:CASCADE" json:"-"`
	OrderNum      int           `json:"lagg_ordernum"`
	PhysNIC       string        `gorm:"column:phys_nic;size:120;uniqueIndex;not null" json:"lagg_physnic"`
	DeviceOptions string        `gorm:"size:120" json:"lagg_deviceoptions,omitempty"`

	// LAGGName resolves LAGGGroupID during inventory import.
	LAGGName string `gorm:"-" json:"-"`
}

// TableName returns the table name for LAGGInterfaceMember.
func (LAGGInterfaceMember) TableName() string {
	return "network_lagg_members"
}

// String returns the member's physical NIC name.
func (m *LAGGInterfaceMember) String() string {
	return m.PhysNIC
}
