package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"
)

var (
	ErrSinSesion = errors.New("sin sesión activa")
)

// Store es el contexto de sesión explícito. Se hidrata desde un archivo de
// estado al arrancar y se inyecta al gateway como TokenProvider.
type Store struct {
	mu   sync.Mutex
	path string
	log  logger.Logger

	state *estado
}

// estado es lo que se persiste: ambos tokens y la identidad serializada.
type estado struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	Usuario gateway.Usuario `json:"usuario"`
}

func New(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{path: path, log: log}
}

// Hydrate carga la sesión persistida. Un archivo ausente o corrupto equivale a
// "sin sesión": se limpia y no se propaga error al caller.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.state = nil
		return
	}

	var st estado
	if err := json.Unmarshal(raw, &st); err != nil || strings.TrimSpace(st.Access) == "" {
		s.log.Warn("estado de sesión ilegible, descartado", map[string]any{"path": s.path})
		s.state = nil
		_ = os.Remove(s.path)
		return
	}

	s.state = &st
}

// Establecer guarda la sesión tras un login exitoso y la persiste.
func (s *Store) Establecer(resp gateway.LoginResponse, usuario string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &estado{
		Access:  resp.Access,
		Refresh: resp.Refresh,
		Usuario: gateway.Usuario{
			ID:          "user",
			Username:    usuario,
			Nombre:      resp.Nombre,
			TipoUsuario: resp.TipoUsuario,
		},
	}
	return s.persist()
}

// Cerrar es el teardown completo: memoria y archivo.
func (s *Store) Cerrar() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = nil
	_ = os.Remove(s.path)
}

// Token implementa httpclient.TokenProvider.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return ""
	}
	return s.state.Access
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return ""
	}
	return s.state.Refresh
}

func (s *Store) Autenticado() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil
}

func (s *Store) Usuario() (gateway.Usuario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return gateway.Usuario{}, ErrSinSesion
	}
	return s.state.Usuario, nil
}

// ExpiraEn lee el claim exp del access token sin verificar firma: el cliente
// no valida tokens, solo los porta; la firma es asunto del backend.
func (s *Store) ExpiraEn() (time.Time, bool) {
	s.mu.Lock()
	tok := ""
	if s.state != nil {
		tok = s.state.Access
	}
	s.mu.Unlock()

	if tok == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expirada reporta si el access token ya venció (false si no trae exp).
func (s *Store) Expirada(now time.Time) bool {
	exp, ok := s.ExpiraEn()
	if !ok {
		return false
	}
	return now.After(exp)
}

func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o600)
}
