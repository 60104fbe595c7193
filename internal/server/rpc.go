package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/copyleftdev/powell/internal/errors"
	"github.com/copyleftdev/powell/internal/optimization"
)

// JSON-RPC 2.0 error codes.
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcServerError    = -32000
	rpcNotFound       = -32001
	rpcConflict       = -32002
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type idParams struct {
	ID string `json:"minimization_id"`
}

// handleJSONRPC handles JSON-RPC 2.0 requests
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, rpcParseError, "Parse error", nil)
		return
	}

	if request.JSONRPC != "2.0" || request.Method == "" {
		s.respondWithError(w, rpcInvalidRequest, "Invalid Request", request.ID)
		return
	}

	var result interface{}
	var err error

	switch request.Method {
	case "minimization.start":
		var p StartRequest
		if err = decodeParams(request.Params, &p); err == nil {
			result, err = s.Start(p)
		}
	case "minimization.status":
		var p idParams
		if err = decodeIDParams(request.Params, &p); err == nil {
			result, err = s.Status(p.ID)
		}
	case "minimization.cancel":
		var p idParams
		if err = decodeIDParams(request.Params, &p); err == nil {
			err = s.Cancel(p.ID)
			result = map[string]string{"status": "cancellation requested"}
		}
	case "objectives.list":
		result = s.Objectives()
	default:
		s.respondWithError(w, rpcMethodNotFound, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondWithError(w, rpcCode(err), err.Error(), request.ID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	})
}

// decodeParams accepts params either as an object or as a one-element array
// holding the object.
func decodeParams(raw json.RawMessage, v interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return optimization.InvalidArgument("missing required parameters")
	}
	if raw[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return optimization.InvalidArgument("invalid parameter format: %v", err)
		}
		if len(arr) != 1 {
			return optimization.InvalidArgument("expected a single parameter object, got %d", len(arr))
		}
		raw = arr[0]
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return optimization.InvalidArgument("invalid parameter format, expected object: %v", err)
	}
	return nil
}

func decodeIDParams(raw json.RawMessage, p *idParams) error {
	if err := decodeParams(raw, p); err != nil {
		return err
	}
	if p.ID == "" {
		return optimization.InvalidArgument("minimization_id is required")
	}
	return nil
}

func rpcCode(err error) int {
	switch {
	case errors.Is(err, optimization.ErrInvalidArgument):
		return rpcInvalidParams
	case errors.Is(err, errors.ErrNotFound):
		return rpcNotFound
	case errors.Is(err, errors.ErrConflict):
		return rpcConflict
	default:
		return rpcServerError
	}
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Warn("RPC error", map[string]interface{}{
		"code":    code,
		"message": message,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	})
}
