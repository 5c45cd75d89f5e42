package quote

import (
	"errors"
	"net/http"

	"github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/salesforce"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

var (
	errBadRequestBody       = errors.New("request body must be JSON with an opportunityId field")
	errMissingOpportunityID = errors.New("opportunityId is required")
)

// statusFor maps the error taxonomy onto HTTP status codes.
//
//	401 - the forwarded credentials are absent, malformed, or rejected
//	404 - the opportunity has no line items to quote
//	400 - the caller (or its data) can fix it: domain validation, batch
//	      validation, or a determinate store rejection
//	500 - indeterminate or defective outcomes: transport failures, protocol
//	      defects, lifecycle misuse
func statusFor(err error) int {
	switch {
	case errors.Is(err, salesforce.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNoLineItems):
		return http.StatusNotFound
	case isDomainValidation(err), unitofwork.IsValidation(err), isStoreRejection(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isDomainValidation(err error) bool {
	return errors.Is(err, domain.ErrMissingOpportunityID) ||
		errors.Is(err, domain.ErrNonPositiveQuantity) ||
		errors.Is(err, domain.ErrNegativeListPrice) ||
		errors.Is(err, domain.ErrInvalidDiscountRate) ||
		errors.Is(err, domain.ErrMalformedPrice)
}

func isStoreRejection(err error) bool {
	var se *unitofwork.StoreError
	return errors.As(err, &se)
}
