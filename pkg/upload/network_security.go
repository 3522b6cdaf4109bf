// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package upload

import (
	"fmt"
	"net"
	"strings"
)

// rejectOutboundIPRange resolves hostname and verifies the first address
// falls inside one of the allowed IPs or CIDR ranges. An empty allow list
// permits any address.
func rejectOutboundIPRange(allowedIPs []string, hostname string) error {
	if strings.Contains(hostname, ":") {
		host, _, err := net.SplitHostPort(hostname)
		if err != nil {
			return err
		}
		hostname = host
	}
	addrs, err := net.LookupIP(hostname)
	if len(addrs) == 0 || err != nil {
		return fmt.Errorf("unable to resolve (found %d) %s: %v", len(addrs), hostname, err)
	}
	if len(allowedIPs) == 0 {
		return nil
	}
	for i := range allowedIPs {
		if strings.Contains(allowedIPs[i], "/") {
			ip, ipnet, err := net.ParseCIDR(allowedIPs[i])
			if err != nil {
				return err
			}
			if ip.Equal(addrs[0]) || ipnet.Contains(addrs[0]) {
				return nil
			}
		} else {
			if net.ParseIP(allowedIPs[i]).Equal(addrs[0]) {
				return nil
			}
		}
	}
	return fmt.Errorf("%s is not allowed", addrs[0].String())
}
