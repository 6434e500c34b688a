package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kassabot/kassa_backend/internal/apperrors"
)

var (
	ghostIdentity   = regexp.MustCompile(`^[0-9a-zA-Zа-яА-Я_.]{3,}$`)
	mentionIdentity = regexp.MustCompile(`^@[0-9a-zA-Z_]{5,}$`)
	numericMention  = regexp.MustCompile(`^@[0-9]+$`)
	numericIdentity = regexp.MustCompile(`^[0-9]+$`)
)

// validIdentity is the binding rule for member account fields: a ghost name
// of at least three word characters (not all digits), an @username mention,
// or an @-prefixed numeric platform id. The registry service re-validates;
// this rule only rejects the obviously malformed early.
func validIdentity(fl validator.FieldLevel) bool {
	account := fl.Field().String()
	if mentionIdentity.MatchString(account) || numericMention.MatchString(account) {
		return true
	}
	return ghostIdentity.MatchString(account) && !numericIdentity.MatchString(account)
}

// chatIDParam extracts and parses the :chatID path parameter. On failure it
// writes the 400 response and reports false.
func chatIDParam(c *gin.Context) (int64, bool) {
	chatID, err := strconv.ParseInt(c.Param("chatID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID format"})
		return 0, false
	}
	return chatID, true
}

// respondServiceError maps service sentinel errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
