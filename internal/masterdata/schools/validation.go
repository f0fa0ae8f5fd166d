package schools

import (
	"fmt"
	"strings"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

func (s *Service) validate(school School) error {
	if strings.TrimSpace(school.Name) == "" {
		return fmt.Errorf("%w: school name is required", httpx.ErrValidation)
	}
	return nil
}
