package i18n

// Message keys for fixed alert text returned to clients.
const (
	MsgInvalidRequest     = "invalid_request"
	MsgValidationFailed   = "validation_failed"
	MsgUnauthorized       = "unauthorized"
	MsgForbidden          = "forbidden"
	MsgNotFound           = "not_found"
	MsgInternal           = "internal_error"
	MsgRateLimited        = "rate_limited"
	MsgInvalidCredentials = "invalid_credentials"
	MsgEmailTaken         = "email_taken"
	MsgWeakPassword       = "weak_password"
	MsgInvalidResetCode   = "invalid_reset_code"
	MsgResetCodeSent      = "reset_code_sent"
	MsgPasswordUpdated    = "password_updated"
	MsgLoggedOut          = "logged_out"
	MsgSelfDemotion       = "self_demotion"
	MsgSlugTaken          = "slug_taken"
	MsgCourseUnavailable  = "course_unavailable"
	MsgAlreadyPurchased   = "already_purchased"
	MsgPaymentFailed      = "payment_failed"
	MsgInvalidSignature   = "invalid_signature"
	MsgNoAccess           = "no_access"
	MsgEventFull          = "event_full"
	MsgEventStarted       = "event_started"
	MsgAlreadyRegistered  = "already_registered"
	MsgNotRegistered      = "not_registered"
	MsgInvalidSchedule    = "invalid_schedule"
	MsgFileTooLarge       = "file_too_large"
	MsgFileTypeNotAllowed = "file_type_not_allowed"
	MsgStorageUnavailable = "storage_unavailable"
	MsgSubscribed         = "subscribed"
	MsgDeleted            = "deleted"
)

var catalog = map[string]map[string]string{
	LocaleEN: {
		MsgInvalidRequest:     "The request could not be read.",
		MsgValidationFailed:   "Some fields are invalid.",
		MsgUnauthorized:       "Please sign in to continue.",
		MsgForbidden:          "You are not allowed to do that.",
		MsgNotFound:           "We could not find what you were looking for.",
		MsgInternal:           "Something went wrong. Please try again later.",
		MsgRateLimited:        "Too many requests. Try again later.",
		MsgInvalidCredentials: "Invalid email or password.",
		MsgEmailTaken:         "An account with this email already exists.",
		MsgWeakPassword:       "Password must be at least 8 characters and include upper and lower case letters, a number and a symbol.",
		MsgInvalidResetCode:   "The reset code is invalid or has expired.",
		MsgResetCodeSent:      "If an account exists for this email, a reset code has been sent.",
		MsgPasswordUpdated:    "Your password has been updated.",
		MsgLoggedOut:          "You have been signed out.",
		MsgSelfDemotion:       "You cannot remove your own admin role.",
		MsgSlugTaken:          "Another course already uses this slug.",
		MsgCourseUnavailable:  "This course is not available for purchase.",
		MsgAlreadyPurchased:   "You already own this course.",
		MsgPaymentFailed:      "We could not start the payment. Please try again.",
		MsgInvalidSignature:   "Invalid webhook signature.",
		MsgNoAccess:           "Purchase this course to watch the lesson.",
		MsgEventFull:          "This event is full.",
		MsgEventStarted:       "This event has already started.",
		MsgAlreadyRegistered:  "You are already registered for this event.",
		MsgNotRegistered:      "You are not registered for this event.",
		MsgInvalidSchedule:    "The event must start in the future and end after it starts.",
		MsgFileTooLarge:       "The file is too large.",
		MsgFileTypeNotAllowed: "This file type is not allowed.",
		MsgStorageUnavailable: "File storage is unavailable right now.",
		MsgSubscribed:         "Thanks, you are on the list.",
		MsgDeleted:            "Deleted.",
	},
	LocaleFR: {
		MsgInvalidRequest:     "La requête est illisible.",
		MsgValidationFailed:   "Certains champs sont invalides.",
		MsgUnauthorized:       "Veuillez vous connecter pour continuer.",
		MsgForbidden:          "Vous n'êtes pas autorisé à faire cela.",
		MsgNotFound:           "Élément introuvable.",
		MsgInternal:           "Une erreur est survenue. Veuillez réessayer plus tard.",
		MsgRateLimited:        "Trop de requêtes. Réessayez plus tard.",
		MsgInvalidCredentials: "E-mail ou mot de passe invalide.",
		MsgEmailTaken:         "Un compte existe déjà avec cet e-mail.",
		MsgWeakPassword:       "Le mot de passe doit contenir au moins 8 caractères, une majuscule, une minuscule, un chiffre et un symbole.",
		MsgInvalidResetCode:   "Le code de réinitialisation est invalide ou expiré.",
		MsgResetCodeSent:      "Si un compte existe pour cet e-mail, un code a été envoyé.",
		MsgPasswordUpdated:    "Votre mot de passe a été mis à jour.",
		MsgLoggedOut:          "Vous êtes déconnecté.",
		MsgSelfDemotion:       "Vous ne pouvez pas retirer votre propre rôle d'administrateur.",
		MsgSlugTaken:          "Un autre cours utilise déjà ce slug.",
		MsgCourseUnavailable:  "Ce cours n'est pas disponible à l'achat.",
		MsgAlreadyPurchased:   "Vous possédez déjà ce cours.",
		MsgPaymentFailed:      "Le paiement n'a pas pu démarrer. Veuillez réessayer.",
		MsgInvalidSignature:   "Signature de webhook invalide.",
		MsgNoAccess:           "Achetez ce cours pour regarder la leçon.",
		MsgEventFull:          "Cet événement est complet.",
		MsgEventStarted:       "Cet événement a déjà commencé.",
		MsgAlreadyRegistered:  "Vous êtes déjà inscrit à cet événement.",
		MsgNotRegistered:      "Vous n'êtes pas inscrit à cet événement.",
		MsgInvalidSchedule:    "L'événement doit commencer dans le futur et finir après son début.",
		MsgFileTooLarge:       "Le fichier est trop volumineux.",
		MsgFileTypeNotAllowed: "Ce type de fichier n'est pas autorisé.",
		MsgStorageUnavailable: "Le stockage de fichiers est indisponible.",
		MsgSubscribed:         "Merci, vous êtes inscrit.",
		MsgDeleted:            "Supprimé.",
	},
}

// T returns the message for key in locale, falling back to English and then to key itself.
func T(locale, key string) string {
	if msgs, ok := catalog[Normalize(locale)]; ok {
		if m, ok := msgs[key]; ok {
			return m
		}
	}
	if m, ok := catalog[DefaultLocale][key]; ok {
		return m
	}
	return key
}
