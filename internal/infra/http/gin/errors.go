package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

// respondError maps domain sentinels to HTTP status codes. Anything
// unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainlender.ErrLenderNotFound),
		errors.Is(err, domainlender.ErrPaymentNotFound),
		errors.Is(err, domainrental.ErrApartmentNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainlender.ErrMissingName),
		errors.Is(err, domainlender.ErrMissingEmail),
		errors.Is(err, domainlender.ErrInvalidLanguage),
		errors.Is(err, domainlender.ErrInvalidDiscount),
		errors.Is(err, domainlender.ErrNonPositiveAmount),
		errors.Is(err, domainrental.ErrMissingName),
		errors.Is(err, domainrental.ErrNonPositivePrice),
		errors.Is(err, domainbooking.ErrInvalidDateRange),
		errors.Is(err, domainnotify.ErrUnknownKind),
		errors.Is(err, daterange.ErrBadFormat),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrExchangeRateRequired),
		errors.Is(err, money.ErrInvalidPercent):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
