package libmonado

import (
	"unicode/utf8"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// Client is a connected OpenXR application, identified by the id the
// runtime assigned it. A Client stays valid only while the application is
// connected.
type Client struct {
	ID uint32

	m *Monado
}

// Clients refreshes the runtime's client list and returns every connected
// client.
func (m *Monado) Clients() ([]Client, error) {
	if err := m.call("mnd_root_update_client_list", func(api ffi.API, root ffi.Root) int32 {
		return api.RootUpdateClientList(root)
	}); err != nil {
		return nil, err
	}

	var count uint32
	if err := m.call("mnd_root_get_number_clients", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		count, code = api.RootGetNumberClients(root)
		return code
	}); err != nil {
		return nil, err
	}

	clients := make([]Client, 0, count)
	for i := uint32(0); i < count; i++ {
		var id uint32
		if err := m.call("mnd_root_get_client_id_at_index", func(api ffi.API, root ffi.Root) int32 {
			var code int32
			id, code = api.RootGetClientIDAtIndex(root, i)
			return code
		}); err != nil {
			return nil, err
		}
		clients = append(clients, Client{ID: id, m: m})
	}
	return clients, nil
}

// Client returns a handle for id without checking that it is connected.
func (m *Monado) Client(id uint32) Client {
	return Client{ID: id, m: m}
}

// Name returns the application name the client reported.
func (c Client) Name() (string, error) {
	var name string
	err := c.m.call("mnd_root_get_client_name", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		name, code = api.RootGetClientName(root, c.ID)
		return code
	})
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(name) {
		return "", ErrInvalidUTF8
	}
	return name, nil
}

// State returns the client's current state flags.
func (c Client) State() (ClientState, error) {
	var state uint32
	err := c.m.call("mnd_root_get_client_state", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		state, code = api.RootGetClientState(root, c.ID)
		return code
	})
	return ClientState(state), err
}

// SetPrimary makes the client the primary application.
func (c Client) SetPrimary() error {
	return c.m.call("mnd_root_set_client_primary", func(api ffi.API, root ffi.Root) int32 {
		return api.RootSetClientPrimary(root, c.ID)
	})
}

// SetFocused gives the client input focus.
func (c Client) SetFocused() error {
	return c.m.call("mnd_root_set_client_focused", func(api ffi.API, root ffi.Root) int32 {
		return api.RootSetClientFocused(root, c.ID)
	})
}

// SetIOActive enables or disables the client's input and output. The native
// call only toggles, so the current state is read first and nothing is sent
// when it already matches.
func (c Client) SetIOActive(active bool) error {
	state, err := c.State()
	if err != nil {
		return err
	}
	if state.Has(ClientIOActive) == active {
		return nil
	}
	return c.m.call("mnd_root_toggle_client_io_active", func(api ffi.API, root ffi.Root) int32 {
		return api.RootToggleClientIOActive(root, c.ID)
	})
}
