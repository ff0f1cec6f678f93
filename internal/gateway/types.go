package gateway

import "github.com/shopspring/decimal"

// Page es el sobre de paginación del backend (page-number, no cursor).
type Page[T any] struct {
	Results  []T     `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// HasNext reporta si existe una página siguiente.
func (p Page[T]) HasNext() bool { return p.Next != nil && *p.Next != "" }

// HasPrevious reporta si existe una página anterior.
func (p Page[T]) HasPrevious() bool { return p.Previous != nil && *p.Previous != "" }

type Paciente struct {
	ID              int    `json:"id"`
	Nombre          string `json:"nombre"`
	Sexo            string `json:"sexo"` // M | F
	FechaNacimiento string `json:"fecha_nacimiento"`
	Identificacion  string `json:"identificacion"`
	Edad            int    `json:"edad"`
	Telefono        string `json:"telefono"`
}

type Especialidad struct {
	ID          int    `json:"id"`
	Descripcion string `json:"descripcion"`
}

type Doctor struct {
	ID             int             `json:"id"`
	Nombre         string          `json:"nombre"`
	Identificacion string          `json:"identificacion"`
	Telefono       string          `json:"telefono"`
	Estado         bool            `json:"estado"`
	Precio         decimal.Decimal `json:"precio"`
	Especialidades []Especialidad  `json:"especialidades"`
}

// Arancel es un servicio con precio: tipo "c" (consulta) o "p" (procedimiento).
// El backend serializa el precio como string decimal.
type Arancel struct {
	ID          int             `json:"id"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Tipo        string          `json:"tipo"`
}

// Cita incluye los nombres denormalizados que el backend snapshotea al crear.
// El cliente los trata como caché de lectura, nunca los reescribe por su cuenta.
type Cita struct {
	ID                 int    `json:"id"`
	Paciente           int    `json:"paciente"`
	PacienteNombre     string `json:"paciente_nombre"`
	DoctorEspecialidad int    `json:"doctor_especialidad"`
	DoctorNombre       string `json:"doctor_nombre"`
	Arancel            int    `json:"arancel"`
	ArancelDescripcion string `json:"arancel_descripcion"`
	FechaHora          string `json:"fecha_hora"` // YYYY-MM-DDTHH:MM:SS, hora de pared local
	EstadoPago         bool   `json:"estado_pago"`
	Estado             string `json:"estado"` // Pendiente | Completada | Cancelada
}

type Historico struct {
	ID       int     `json:"id"`
	Paciente int     `json:"paciente"`
	Fecha    string  `json:"fecha"`
	Peso     float64 `json:"peso"`   // kg
	Altura   float64 `json:"altura"` // cm
	IMC      float64 `json:"imc"`
}

type FacturaDetalle struct {
	IDArancel   int             `json:"id_arancel"`
	Descripcion string          `json:"descripcion"`
	Tipo        string          `json:"tipo"`
	Precio      decimal.Decimal `json:"precio"`
}

type Factura struct {
	ID       int              `json:"id"`
	Paciente int              `json:"id_paciente"`
	Fecha    string           `json:"fecha"`
	Total    decimal.Decimal  `json:"total"`
	Detalles []FacturaDetalle `json:"detalles"`
}

type LoginResponse struct {
	Access      string `json:"access"`
	Refresh     string `json:"refresh"`
	Nombre      string `json:"nombre"`
	TipoUsuario string `json:"tipo_usuario"`
}

type Usuario struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	Nombre      string `json:"nombre"`
	TipoUsuario string `json:"tipo_usuario"`
}

// PerfilUsuario es la identidad que el backend asocia al token vigente.
type PerfilUsuario struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Nombre      string `json:"nombre"`
	TipoUsuario string `json:"tipo_usuario"`
}
