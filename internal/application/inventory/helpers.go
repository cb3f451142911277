package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// canonicalID devuelve el UUID en forma canónica (minúsculas con guiones).
// Si s no es un UUID válido lo devuelve sin cambios y false.
func canonicalID(s string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return s, false
	}
	return id.String(), true
}

// optionalSKU normaliza el SKU: vacío significa sin SKU (NULL).
func optionalSKU(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func sameSKU(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// utcNow hora actual en UTC truncada a microsegundos (precisión de TIMESTAMPTZ).
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
