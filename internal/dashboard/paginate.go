package dashboard

import (
	"errors"
	"fmt"

	"github.com/crmdash/leadboard/internal/models"
)

// PageSize es fijo; el dashboard original lo trata como no configurable.
const PageSize = 10

// ErrPageOutOfRange indica una página fuera de [1, totalPages]. Es una
// violación de contrato del caller: recortarla en silencio taparía un
// bug de la capa de presentación.
var ErrPageOutOfRange = errors.New("page number out of range")

// TotalPages: ceil(n/size). Un dataset vacío sigue teniendo página 1.
func TotalPages(n, size int) int {
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-indexed page slice plus the total page count.
// The last page may be shorter than size.
func Paginate(leads []models.Lead, size, page int) ([]models.Lead, int, error) {
	tp := TotalPages(len(leads), size)
	if page < 1 || page > tp {
		return nil, tp, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, tp)
	}
	start := (page - 1) * size
	end := start + size
	if end > len(leads) {
		end = len(leads)
	}
	if start > len(leads) {
		start = len(leads)
	}
	return leads[start:end], tp, nil
}
