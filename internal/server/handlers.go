package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	libmonado "github.com/technobaboo/libmonado-go"
)

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"api_version": s.m.APIVersion(),
		"library":     s.m.Path(),
	})
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.m.Snapshot()
	if err != nil {
		s.writeRuntimeError(w, r, "snapshot", err)
		return
	}
	writeSuccess(w, http.StatusOK, snap)
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.m.Clients()
	if err != nil {
		s.writeRuntimeError(w, r, "list_clients", err)
		return
	}
	out := make([]libmonado.ClientInfo, 0, len(clients))
	for _, c := range clients {
		out = append(out, c.Info())
	}
	writeSuccess(w, http.StatusOK, out)
}

// uintParam reads a path parameter as uint32, writing a 400 on failure.
func uintParam(w http.ResponseWriter, r *http.Request, name string) (uint32, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid "+name)
		return 0, false
	}
	return uint32(v), true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (s *Server) clientAction(w http.ResponseWriter, r *http.Request, op string, act func(libmonado.Client) error) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return
	}
	c := s.m.Client(id)
	if err := act(c); err != nil {
		s.writeRuntimeError(w, r, op, err)
		return
	}
	writeSuccess(w, http.StatusOK, c.Info())
}

func (s *Server) setClientPrimary(w http.ResponseWriter, r *http.Request) {
	s.clientAction(w, r, "set_client_primary", libmonado.Client.SetPrimary)
}

func (s *Server) setClientFocused(w http.ResponseWriter, r *http.Request) {
	s.clientAction(w, r, "set_client_focused", libmonado.Client.SetFocused)
}

type ioRequest struct {
	Active *bool `json:"active"`
}

func (s *Server) setClientIO(w http.ResponseWriter, r *http.Request) {
	var req ioRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "active is required")
		return
	}
	s.clientAction(w, r, "set_client_io", func(c libmonado.Client) error {
		return c.SetIOActive(*req.Active)
	})
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.m.Devices()
	if err != nil {
		s.writeRuntimeError(w, r, "list_devices", err)
		return
	}
	out := make([]libmonado.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.Info())
	}
	writeSuccess(w, http.StatusOK, out)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	index, ok := uintParam(w, r, "index")
	if !ok {
		return
	}
	d, err := s.m.Device(index)
	if err != nil {
		s.writeRuntimeError(w, r, "get_device", err)
		return
	}
	writeSuccess(w, http.StatusOK, d.Info())
}

type brightnessRequest struct {
	Value    *float32 `json:"value"`
	Relative bool     `json:"relative"`
}

func (s *Server) setBrightness(w http.ResponseWriter, r *http.Request) {
	index, ok := uintParam(w, r, "index")
	if !ok {
		return
	}
	var req brightnessRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "value is required")
		return
	}
	d, err := s.m.Device(index)
	if err == nil {
		err = d.SetBrightness(*req.Value, req.Relative)
	}
	if err != nil {
		s.writeRuntimeError(w, r, "set_brightness", err)
		return
	}
	writeSuccess(w, http.StatusOK, d.Info())
}

func (s *Server) getRole(w http.ResponseWriter, r *http.Request) {
	role, err := libmonado.ParseDeviceRole(chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	d, err := s.m.DeviceFromRole(role)
	if err != nil {
		s.writeRuntimeError(w, r, "get_role", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"role": role, "device": d.Info()})
}

func (s *Server) listOrigins(w http.ResponseWriter, r *http.Request) {
	origins, err := s.m.TrackingOrigins()
	if err != nil {
		s.writeRuntimeError(w, r, "list_origins", err)
		return
	}
	out := make([]libmonado.OriginInfo, 0, len(origins))
	for _, o := range origins {
		out = append(out, o.Info())
	}
	writeSuccess(w, http.StatusOK, out)
}

func (s *Server) setOriginOffset(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return
	}
	var pose libmonado.Pose
	if !decode(w, r, &pose) {
		return
	}
	o := s.m.TrackingOrigin(id)
	if err := o.SetOffset(pose); err != nil {
		s.writeRuntimeError(w, r, "set_origin_offset", err)
		return
	}
	writeSuccess(w, http.StatusOK, pose)
}

func spaceParam(w http.ResponseWriter, r *http.Request) (libmonado.ReferenceSpaceType, bool) {
	t, err := libmonado.ParseReferenceSpaceType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, false
	}
	return t, true
}

func (s *Server) getSpace(w http.ResponseWriter, r *http.Request) {
	t, ok := spaceParam(w, r)
	if !ok {
		return
	}
	pose, err := s.m.ReferenceSpaceOffset(t)
	if err != nil {
		s.writeRuntimeError(w, r, "get_space", err)
		return
	}
	writeSuccess(w, http.StatusOK, pose)
}

func (s *Server) setSpace(w http.ResponseWriter, r *http.Request) {
	t, ok := spaceParam(w, r)
	if !ok {
		return
	}
	var pose libmonado.Pose
	if !decode(w, r, &pose) {
		return
	}
	if err := s.m.SetReferenceSpaceOffset(t, pose); err != nil {
		s.writeRuntimeError(w, r, "set_space", err)
		return
	}
	writeSuccess(w, http.StatusOK, pose)
}

func (s *Server) recenter(w http.ResponseWriter, r *http.Request) {
	if err := s.m.RecenterLocalSpaces(); err != nil {
		s.writeRuntimeError(w, r, "recenter", err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

type chromaKeyRequest struct {
	Color     string  `json:"color"`
	Threshold float32 `json:"threshold"`
	Smoothing float32 `json:"smoothing"`
}

func (s *Server) setChromaKey(w http.ResponseWriter, r *http.Request) {
	var req chromaKeyRequest
	if !decode(w, r, &req) {
		return
	}
	color, err := libmonado.ParseRGB(req.Color)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := s.m.SetChromaKeyParams(color, req.Threshold, req.Smoothing); err != nil {
		s.writeRuntimeError(w, r, "set_chroma_key", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"color": color.Hex(), "threshold": req.Threshold, "smoothing": req.Smoothing})
}
