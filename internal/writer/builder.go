// internal/writer/builder.go
package writer

import (
	"errors"

	cfg "github.com/antondlr/gicar-serial/internal/config"
	wmodbus "github.com/antondlr/gicar-serial/internal/writer/modbus"
)

// BuildPlan converts a normalized mirror config into a Plan.
// Assumes config has already passed Validate.
func BuildPlan(device string, m cfg.MirrorConfig) (Plan, error) {
	if device == "" {
		return Plan{}, errors.New("writer: device name required")
	}

	plan := Plan{
		Device:   device,
		Endpoint: m.Endpoint,
		UnitID:   m.UnitID,
		Address:  m.Address,
	}

	if m.StatusSlot != nil {
		unitID := m.UnitID
		if m.StatusUnitID != nil {
			unitID = *m.StatusUnitID
		}
		plan.Status = &StatusPlan{
			Endpoint:   m.Endpoint,
			UnitID:     unitID,
			BaseSlot:   *m.StatusSlot,
			DeviceName: m.DeviceName,
		}
	}

	return plan, nil
}

// BuildEndpointClients creates one TCP client per unique endpoint.
func BuildEndpointClients(plan Plan, m cfg.MirrorConfig) (map[string]RegisterClient, func() error, error) {
	unique := map[string]struct{}{plan.Endpoint: {}}
	if plan.Status != nil {
		unique[plan.Status.Endpoint] = struct{}{}
	}

	clients := make(map[string]RegisterClient)
	var closers []func() error

	for endpoint := range unique {
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: endpoint,
			Timeout:  m.Timeout(),
		})
		if err != nil {
			for _, fn := range closers {
				_ = fn()
			}
			return nil, nil, err
		}
		clients[endpoint] = c
		closers = append(closers, c.Close)
	}

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	return clients, closeAll, nil
}
