package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"
)

func storeDePrueba(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sesion.json")
	return New(path, logger.Nop()), path
}

func loginDePrueba() gateway.LoginResponse {
	return gateway.LoginResponse{
		Access:      "acceso",
		Refresh:     "refresh",
		Nombre:      "Ana Ruiz",
		TipoUsuario: "admin",
	}
}

// jwtSinFirma arma un token con el claim exp dado; la firma no importa
// porque el Store nunca la verifica.
func jwtSinFirma(t *testing.T, exp time.Time) string {
	t.Helper()
	enc := func(v any) string {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(raw)
	}
	header := enc(map[string]string{"alg": "HS256", "typ": "JWT"})
	claims := enc(map[string]any{"exp": exp.Unix(), "user_id": 1})
	return fmt.Sprintf("%s.%s.firma", header, claims)
}

func TestEstablecerYToken(t *testing.T) {
	s, _ := storeDePrueba(t)

	if s.Autenticado() {
		t.Fatal("un store nuevo no puede venir autenticado")
	}
	if s.Token() != "" {
		t.Fatal("sin sesión el token debe ser vacío")
	}

	if err := s.Establecer(loginDePrueba(), "ana"); err != nil {
		t.Fatalf("Establecer: %v", err)
	}

	if !s.Autenticado() {
		t.Fatal("Establecer debía dejar sesión activa")
	}
	if s.Token() != "acceso" || s.RefreshToken() != "refresh" {
		t.Fatalf("tokens = %q / %q", s.Token(), s.RefreshToken())
	}

	u, err := s.Usuario()
	if err != nil {
		t.Fatalf("Usuario: %v", err)
	}
	if u.ID != "user" || u.Username != "ana" || u.Nombre != "Ana Ruiz" || u.TipoUsuario != "admin" {
		t.Fatalf("usuario = %+v", u)
	}
}

func TestHydrateRestauraSesion(t *testing.T) {
	s, path := storeDePrueba(t)
	if err := s.Establecer(loginDePrueba(), "ana"); err != nil {
		t.Fatalf("Establecer: %v", err)
	}

	// Otro Store sobre el mismo archivo ve la misma sesión.
	s2 := New(path, logger.Nop())
	s2.Hydrate()

	if !s2.Autenticado() || s2.Token() != "acceso" {
		t.Fatal("Hydrate no restauró la sesión persistida")
	}
	u, err := s2.Usuario()
	if err != nil || u.Username != "ana" {
		t.Fatalf("usuario restaurado = %+v (%v)", u, err)
	}
}

func TestHydrateArchivoAusente(t *testing.T) {
	s, _ := storeDePrueba(t)
	s.Hydrate()

	if s.Autenticado() {
		t.Fatal("sin archivo no puede haber sesión")
	}
}

func TestHydrateArchivoCorrupto(t *testing.T) {
	s, path := storeDePrueba(t)
	if err := os.WriteFile(path, []byte("{esto no es json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s.Hydrate()

	if s.Autenticado() {
		t.Fatal("un archivo corrupto debe equivaler a sesión cerrada")
	}
	// El archivo dañado se descarta para no tropezar en el próximo arranque.
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("el archivo corrupto sigue ahí: %v", err)
	}
}

func TestCerrarLimpiaTodo(t *testing.T) {
	s, path := storeDePrueba(t)
	if err := s.Establecer(loginDePrueba(), "ana"); err != nil {
		t.Fatalf("Establecer: %v", err)
	}

	s.Cerrar()

	if s.Autenticado() || s.Token() != "" {
		t.Fatal("Cerrar dejó restos de sesión en memoria")
	}
	if _, err := s.Usuario(); !errors.Is(err, ErrSinSesion) {
		t.Fatalf("quería ErrSinSesion, fue %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("Cerrar no borró el archivo de estado")
	}
}

func TestExpiraEn(t *testing.T) {
	s, _ := storeDePrueba(t)
	vence := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	resp := loginDePrueba()
	resp.Access = jwtSinFirma(t, vence)
	if err := s.Establecer(resp, "ana"); err != nil {
		t.Fatalf("Establecer: %v", err)
	}

	exp, ok := s.ExpiraEn()
	if !ok {
		t.Fatal("el token trae exp y ExpiraEn no lo leyó")
	}
	if !exp.Equal(vence) {
		t.Fatalf("exp = %v, quería %v", exp, vence)
	}

	if s.Expirada(vence.Add(-time.Minute)) {
		t.Fatal("todavía no vence")
	}
	if !s.Expirada(vence.Add(time.Minute)) {
		t.Fatal("ya venció")
	}
}

func TestExpiradaSinExp(t *testing.T) {
	s, _ := storeDePrueba(t)
	if err := s.Establecer(loginDePrueba(), "ana"); err != nil {
		t.Fatalf("Establecer: %v", err)
	}

	// Un access token opaco (sin claims legibles) nunca se da por vencido;
	// el backend contestará 401 cuando de verdad expire.
	if s.Expirada(time.Now().Add(24 * time.Hour)) {
		t.Fatal("sin exp legible no hay vencimiento local")
	}
}
