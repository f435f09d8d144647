package portal

import (
	"errors"

	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

var messages = map[string]string{
	apperrors.CodeValidation:        "Revisa los datos ingresados.",
	apperrors.CodeNotFound:          "No encontramos un registro con ese número.",
	apperrors.CodeInvalidTransition: "Este registro ya fue actualizado por otra persona. Recarga e intenta de nuevo.",
	apperrors.CodeTokenExpired:      "El enlace de activación expiró. Pide uno nuevo al administrador.",
	apperrors.CodeTokenAlreadyUsed:  "Esta cuenta ya fue activada. Inicia sesión con tu contraseña.",
	apperrors.CodeTokenNotFound:     "El enlace de activación no es válido.",
	apperrors.CodeConnection:        "No pudimos conectar con el servidor. Intenta de nuevo en unos momentos.",
	apperrors.CodeRouteNotFound:     "La dirección del servidor no es correcta. Revisa la configuración.",
	apperrors.CodeUnauthorized:      "Correo o contraseña incorrectos, o tu sesión expiró.",
	apperrors.CodeForbidden:         "No tienes permiso para realizar esta acción.",
	apperrors.CodeConflict:          "Ya existe un registro con esos datos.",
	apperrors.CodeInternal:          "Ocurrió un error inesperado.",
}

var validationReasons = map[string]string{
	apperrors.ReasonMissingSelection: "Selecciona el negocio y la actividad antes de buscar.",
}

// Describe turns an error into the message shown to the user. Every error
// code has its own message so an unreachable server never reads as "not registered".
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUploadCancelled) {
		return "Subida cancelada. El registro no fue modificado."
	}
	if IsConnectionError(err) {
		return messages[apperrors.CodeConnection]
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code == apperrors.CodeValidation {
		if reason, ok := domainErr.Details["reason"].(string); ok {
			if msg, ok := validationReasons[reason]; ok {
				return msg
			}
		}
		if field, ok := domainErr.Details["field"].(string); ok {
			switch field {
			case "password", "newPassword":
				return "La contraseña debe tener al menos 8 caracteres."
			case "confirmation":
				return "Las contraseñas no coinciden."
			case "files":
				return "Selecciona al menos una foto."
			case "telefono":
				return "Ingresa un número de teléfono válido."
			}
		}
	}
	if msg, ok := messages[domainErr.Code]; ok {
		return msg
	}
	return messages[apperrors.CodeInternal]
}
