package common

import "fmt"

// Notificacion is a user notification.
type Notificacion struct {
	ID            ID     `json:"id"`                      // Notification ID
	Titulo        string `json:"titulo"`                  // Title
	Mensaje       string `json:"mensaje"`                 // Body
	Tipo          string `json:"tipo,omitempty"`          // Kind, e.g. MANTENIMIENTO, SOLICITUD
	Leida         bool   `json:"leida"`                   // Whether the user has read it
	FechaCreacion string `json:"fechaCreacion,omitempty"` // Creation timestamp as sent by the backend
	Enlace        string `json:"enlace,omitempty"`        // Optional link inside the application
}

// Option is an entry of a form select.
type Option struct {
	Value string
	Label string
}

// SolicitudTipo is the kind of a change request.
type SolicitudTipo int

const (
	// SolicitudTraslado asks to move an asset to another site, area or employee.
	SolicitudTraslado SolicitudTipo = iota
	// SolicitudBaja asks to decommission an asset.
	SolicitudBaja
	// SolicitudRepuesto asks for a spare part.
	SolicitudRepuesto
	// SolicitudMantenimiento asks for maintenance.
	SolicitudMantenimiento
)

func (t SolicitudTipo) String() string {
	switch t {
	case SolicitudTraslado:
		return "TRASLADO"
	case SolicitudBaja:
		return "BAJA"
	case SolicitudRepuesto:
		return "REPUESTO"
	case SolicitudMantenimiento:
		return "MANTENIMIENTO"
	default:
		return fmt.Sprintf("%d", int(t))
	}
}

// Label returns the human-readable name of the request kind.
func (t SolicitudTipo) Label() string {
	switch t {
	case SolicitudTraslado:
		return "Traslado"
	case SolicitudBaja:
		return "Baja"
	case SolicitudRepuesto:
		return "Repuesto"
	case SolicitudMantenimiento:
		return "Mantenimiento"
	default:
		return t.String()
	}
}

// SolicitudTipos lists the request kinds in display order.
var SolicitudTipos = []SolicitudTipo{SolicitudTraslado, SolicitudBaja, SolicitudRepuesto, SolicitudMantenimiento}

// NewSolicitudTipoFromString gets a SolicitudTipo from its backend name.
func NewSolicitudTipoFromString(enumString string) (ret SolicitudTipo, err error) {
	for _, t := range SolicitudTipos {
		if t.String() == enumString {
			return t, nil
		}
	}

	err = fmt.Errorf("tipo de solicitud desconocido: %v", enumString)
	return
}

// Request states as the backend names them.
const (
	SolicitudPendiente = "PENDIENTE"
	SolicitudAprobada  = "APROBADA"
	SolicitudRechazada = "RECHAZADA"
)
