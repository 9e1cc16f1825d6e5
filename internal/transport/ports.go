package transport

import (
	"fmt"
	"sort"

	bugst "go.bug.st/serial"
)

// ListPorts returns the serial ports present on this host, sorted.
func ListPorts() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate: %v", ErrPort, err)
	}
	sort.Strings(ports)
	return ports, nil
}
