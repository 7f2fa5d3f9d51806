package client

import (
	"errors"
	"fmt"
)

// ErrSuperseded es la causa de cancelación cuando un envío nuevo reemplaza a uno en vuelo.
var ErrSuperseded = errors.New("superseded by a newer submission")

// Operaciones en las que puede fallar una llamada remota.
const (
	OpIdentity  = "identity"
	OpEncode    = "encode"
	OpTransport = "transport"
	OpStatus    = "status"
	OpRead      = "read"
	OpParse     = "parse"
	OpSchema    = "schema"
)

// RemoteCallFailure cubre cualquier fallo de una llamada al servicio de metas:
// transporte, status HTTP, lectura, JSON inválido o violación de esquema.
type RemoteCallFailure struct {
	Goal       string
	Op         string
	StatusCode int
	Superseded bool
	Err        error
}

func (e *RemoteCallFailure) Error() string {
	msg := fmt.Sprintf("remote call failed (op=%s", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status=%d", e.StatusCode)
	}
	if e.Superseded {
		msg += " superseded"
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteCallFailure) Unwrap() error {
	return e.Err
}

// IsRemoteCallFailure indica si err (o algo que envuelve) es un RemoteCallFailure.
func IsRemoteCallFailure(err error) bool {
	var rcf *RemoteCallFailure
	return errors.As(err, &rcf)
}
