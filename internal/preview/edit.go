package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// EditFunc applies one named editing operation to the previewed site. A
// successful edit is expected to reach the server through Update.
type EditFunc func(ctx context.Context, op string, args []string) error

type editRequest struct {
	Op   string   `json:"op" validate:"required"`
	Args []string `json:"args"`
}

type editResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

var validate = validator.New()

// WithEditor enables POST /edit, which decodes {"op": ..., "args": [...]}
// and hands it to fn.
func WithEditor(fn EditFunc) Option {
	return func(s *Server) { s.edit = fn }
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeEdit(w, http.StatusBadRequest, "invalid edit request: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeEdit(w, http.StatusBadRequest, "edit request needs an op")
		return
	}
	if err := s.edit(r.Context(), req.Op, req.Args); err != nil {
		s.logger.Info("edit rejected", zap.String("op", req.Op), zap.Error(err))
		writeEdit(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.logger.Debug("edit applied", zap.String("op", req.Op))
	writeEdit(w, http.StatusOK, "")
}

func writeEdit(w http.ResponseWriter, code int, msg string) {
	resp := editResponse{Status: "ok", Error: msg}
	if msg != "" {
		resp.Status = "error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
