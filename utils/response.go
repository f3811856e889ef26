package utils

import (
	"errors"
	"strconv"

	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/pagedef"
	"helpdesk.link/pkg/pipeline"
	"helpdesk.link/services"

	"github.com/gofiber/fiber/v2"
)

const MsgUnexpected = "Ocorreu um erro inesperado. Tente novamente."

// ErrorJSON standart hata gövdesi: {"error": "..."}.
func ErrorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// ValidationJSON alan bazlı doğrulama hataları; 422 döner.
func ValidationJSON(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  "Verifique os campos destacados",
		"errors": errs,
	})
}

// StatusFor hatayı HTTP durum koduna çevirir. Bilinmeyenler 500'dür.
func StatusFor(err error) int {
	var verr *formfill.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, builder.ErrNotFound),
		errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrBuilderSessionNotFound),
		errors.Is(err, builder.ErrUnknownItem):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrFormPasswordMismatch):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrTicketNotApprover):
		return fiber.StatusForbidden
	case errors.Is(err, builder.ErrSaveInFlight),
		errors.Is(err, pipeline.ErrSubmitInFlight),
		errors.Is(err, services.ErrPageSlugTaken),
		errors.Is(err, services.ErrPageSlugLocked),
		errors.Is(err, services.ErrTicketNotPending):
		return fiber.StatusConflict
	case errors.Is(err, formdef.ErrNameRequired),
		errors.Is(err, formdef.ErrNoFields),
		errors.Is(err, pagedef.ErrTitleRequired),
		errors.Is(err, pagedef.ErrSlugRequired),
		errors.Is(err, builder.ErrNoOptions),
		errors.Is(err, services.ErrFormInvalidInput),
		errors.Is(err, services.ErrPageInvalidInput),
		errors.Is(err, services.ErrFormLinkedUserNotFound),
		errors.Is(err, services.ErrFormLinkedGroupNotFound):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// MessageFor kullanıcıya gösterilecek metin: hatanın kendi mesajı varsa o,
// yoksa fallback.
func MessageFor(err error, fallback string) string {
	var se *builder.SaveError
	if errors.As(err, &se) {
		return se.Message
	}
	var um builder.UserMessenger
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	if errors.Is(err, pipeline.ErrSubmissionFailed) {
		return pipeline.MsgSubmissionFailed
	}
	if StatusFor(err) != fiber.StatusInternalServerError {
		return err.Error()
	}
	return fallback
}

// ServiceError hatayı eşleyip JSON olarak yazar. Doğrulama hatası alan
// haritasıyla döner.
func ServiceError(c *fiber.Ctx, err error) error {
	var verr *formfill.ValidationError
	if errors.As(err, &verr) {
		return ValidationJSON(c, verr.Errors)
	}
	return ErrorJSON(c, StatusFor(err), MessageFor(err, MsgUnexpected))
}

// ParamUint pozitif sayısal path parametresi.
func ParamUint(c *fiber.Ctx, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
