/*
Copyright © 2025 Alex Bedo <alex98hun@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package alert

import (
	"fmt"
	"net"
	"strconv"

	zabbix "github.com/blacked/go-zabbix"
)

// Zabbix sends status codes to a Zabbix trapper endpoint.
type Zabbix struct {
	host string
	port int
}

// NewZabbix parses a "host:port" address into a trapper sink.
func NewZabbix(address string) (*Zabbix, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("invalid alert address %q: %w", address, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid alert port %q: %w", portStr, err)
	}
	return &Zabbix{host: host, port: port}, nil
}

// Send reports a single value under key for hostname. One metric per
// packet; a fresh connection per send, matching the trapper protocol.
func (z *Zabbix) Send(hostname, key string, value int) error {
	metric := zabbix.NewMetric(hostname, key, strconv.Itoa(value))
	packet := zabbix.NewPacket([]*zabbix.Metric{metric})
	if _, err := zabbix.NewSender(z.host, z.port).Send(packet); err != nil {
		return fmt.Errorf("failed to send %s=%d to zabbix: %w", key, value, err)
	}
	return nil
}
